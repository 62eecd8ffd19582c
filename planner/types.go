package planner

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
)

// AgentState 车辆纵向状态
// 功能：描述一辆车在其行驶方向上的位置、速度、加速度及所在车道
// 说明：每步由世界状态消息构造，单次规划过程中不可变
type AgentState struct {
	Position     float64 // 纵向位置（米），路口冲突点为0
	Velocity     float64 // 纵向速度（米/秒）
	Acceleration float64 // 纵向加速度（米/秒²）
	LaneID       int32   // 车道ID
}

// PriorAgentState 前车（需要响应的车辆）状态
// 功能：规划器本步需要响应的唯一车辆，是每步重新推导的角色而非被跟踪的对象
// 说明：其他车辆的加速度不可观测，恒为0
type PriorAgentState struct {
	Position     float64
	Velocity     float64
	Acceleration float64
}

func (p PriorAgentState) String() string {
	return fmt.Sprintf("prior(pos=%.3f, v=%.3f, a=%.3f)", p.Position, p.Velocity, p.Acceleration)
}

// ScoredCandidate 已评分的候选动作
type ScoredCandidate struct {
	Jerk         float64 // 候选加加速度
	Acceleration float64 // 候选加速度 = 保留加速度 + Jerk
	Violations   int     // 预测时域内的违规点数
	Cost         float64 // 代价
}

// EgoState 从世界状态中提取主车的纵向状态（x轴）
func EgoState(msg *protocol.WorldState) AgentState {
	return AgentState{
		Position: msg.EgoVehicle.Position.X(),
		Velocity: msg.EgoVehicle.Velocity.X(),
	}
}

// OtherAgents 从世界状态中提取其他车辆的纵向状态（y轴）
func OtherAgents(msg *protocol.WorldState) []AgentState {
	return lo.Map(msg.Vehicles, func(v protocol.Vehicle, _ int) AgentState {
		return AgentState{
			Position: v.Position.Y(),
			Velocity: v.Velocity.Y(),
			LaneID:   v.LaneID,
		}
	})
}
