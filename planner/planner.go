package planner

import (
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
)

// Planner 右侧让行规则下的滚动时域速度规划器
// 功能：保存规划参数，按“前车选择→让行决策→轨迹预测→代价评估→指令选择”的顺序完成单步规划
// 说明：Planner本身无状态，跨步保留的状态全部位于Session中，由调用方传入并接收返回值
type Planner struct {
	horizon         int       // 预测时域步数
	dt              float64   // 步长
	cv              float64   // 速度项系数
	ca              float64   // 加速度项系数
	margin          float64   // 路口前安全距离
	targetV         float64   // 目标速度
	minA, maxA      float64   // 加速度约束
	minV, maxV      float64   // 速度约束
	jerks           []float64 // 候选加加速度
	yieldLine       float64   // 让行线
	lane            int32     // 交互车道
	proximity       float64   // 碰撞风险距离
	collisionWeight int       // 碰撞风险惩罚点数
	defaultPriorPos float64   // 无前车时的前车位置
	eBrake          bool      // 紧急制动开关
}

// New 根据配置创建规划器
func New(c config.Planner) *Planner {
	return &Planner{
		horizon:         c.Horizon,
		dt:              c.DT,
		cv:              c.Cv,
		ca:              c.Ca,
		margin:          c.Margin,
		targetV:         c.TargetV,
		minA:            c.MinA,
		maxA:            c.MaxA,
		minV:            c.MinV,
		maxV:            c.MaxV,
		jerks:           append([]float64(nil), c.Jerks...),
		yieldLine:       c.YieldLine,
		lane:            c.InteractionLane,
		proximity:       c.CollisionProximity,
		collisionWeight: c.CollisionWeight,
		defaultPriorPos: c.DefaultPriorPosition,
		eBrake:          c.EmergencyBrake,
	}
}

// DefaultPriorAgent 无来车时假设的远处前车，以最大速度行驶
func (p *Planner) DefaultPriorAgent() PriorAgentState {
	return PriorAgentState{Position: p.defaultPriorPos, Velocity: p.maxV}
}

// NewSession 创建初始会话状态
func (p *Planner) NewSession() Session {
	return Session{Prior: p.DefaultPriorAgent()}
}

// SelectPriorAgent 使用规划器参数选择前车
func (p *Planner) SelectPriorAgent(agents []AgentState) PriorAgentState {
	return SelectPriorAgent(agents, p.lane, p.yieldLine, p.DefaultPriorAgent())
}

// Plan 单步规划
// 功能：依次执行五个阶段，返回更新后的会话状态
// 参数：s-上一步的会话状态，ego-主车状态，agents-其他车辆
// 返回：更新后的会话状态，VelCmd即本步速度指令
func (p *Planner) Plan(s Session, ego AgentState, agents []AgentState) Session {
	prior := p.SelectPriorAgent(agents)
	s.Prior = prior
	s.Yield = Decide(ego.Position, prior.Position, p.yieldLine)
	candidates := p.EvaluateCandidates(ego, prior, s.Yield, s.AccCmd)
	s = p.SelectCommand(s, ego, prior, candidates)
	log.Debugf("ego(pos=%.3f, v=%.3f) %v yield=%v -> v_cmd=%.3f a_cmd=%.3f jerk=%.3f",
		ego.Position, ego.Velocity, prior, s.Yield, s.VelCmd, s.AccCmd, s.Jerk)
	return s
}

// OnWorldState 世界状态处理入口
// 功能：检测仿真轮次变化并完成单步规划，生成速度指令
// 参数：s-会话状态，msg-世界状态消息
// 返回：更新后的会话状态与速度指令
// 说明：轮次变化时只重置前车假设并累加轮数，保留的加速度、速度、加加速度沿用上一轮
func (p *Planner) OnWorldState(s Session, msg *protocol.WorldState) (Session, protocol.Command) {
	if msg.SimulationRound != s.Round {
		s = p.ResetRound(s, msg.SimulationRound)
	}
	s = p.Plan(s, EgoState(msg), OtherAgents(msg))
	return s, protocol.Command{
		SimulationRound: msg.SimulationRound,
		EgoCarSpeed:     s.VelCmd,
	}
}

// OnStatistics 统计消息处理入口，只更新计数器
func (p *Planner) OnStatistics(s Session, msg *protocol.Statistics) Session {
	if msg.Success {
		s.Success++
	}
	if msg.CollisionDetected {
		s.Collision++
	}
	return s
}
