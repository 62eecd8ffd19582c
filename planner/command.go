package planner

import (
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
)

// SelectMinCost 选择代价最小的候选，并列时取第一个
// 返回：最优候选与是否存在候选
func SelectMinCost(candidates []ScoredCandidate) (best ScoredCandidate, ok bool) {
	minCost := mathutil.INF
	for _, c := range candidates {
		if !ok || c.Cost < minCost {
			best, minCost, ok = c, c.Cost, true
		}
	}
	return
}

// SelectCommand 指令选择
// 功能：选出最优候选，更新保留的加速度与加加速度，计算并限幅速度指令
// 参数：s-会话状态，ego-主车状态，prior-前车状态，candidates-已评分候选
// 返回：更新后的会话状态
// 算法说明：
// 1. 取代价最小的候选，加加速度为其加速度与上一步加速度之差
// 2. 加速度限幅到[minA, maxA]
// 3. 速度指令 = 当前速度 + 加速度*dt，超出[minV, maxV]时限幅且本步加速度置0
// 4. 启用紧急制动时，主车与前车同时位于安全距离与路口之间则速度、加速度置0
func (p *Planner) SelectCommand(s Session, ego AgentState, prior PriorAgentState, candidates []ScoredCandidate) Session {
	best, ok := SelectMinCost(candidates)
	if !ok {
		log.Panicf("no feasible candidate for acc_cmd=%v with jerks %v in [%v, %v]", s.AccCmd, p.jerks, p.minA, p.maxA)
	}
	s.Jerk = best.Acceleration - s.AccCmd
	s.AccCmd = lo.Clamp(best.Acceleration, p.minA, p.maxA)

	s.VelCmd = ego.Velocity + s.AccCmd*p.dt
	if s.VelCmd > p.maxV {
		s.VelCmd = p.maxV
		s.AccCmd = 0
	}
	if s.VelCmd < p.minV {
		s.VelCmd = p.minV
		s.AccCmd = 0
	}
	if p.eBrake &&
		ego.Position > p.margin && ego.Position < 0 &&
		prior.Position > p.margin && prior.Position < 0 {
		log.Debugf("emergency brake: ego=%.3f %v", ego.Position, prior)
		s.VelCmd = 0
		s.AccCmd = 0
	}
	return s
}
