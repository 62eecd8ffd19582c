package planner

// Session 跨步保留的控制器状态
// 功能：保存上一步的加速度指令、速度指令、加加速度，以及轮数、成功、碰撞计数和最近的仿真轮次
// 说明：值对象，由规划入口接收并返回，不存在隐式的全局状态
type Session struct {
	AccCmd float64 // 加速度指令，作为下一步候选搜索的基准
	VelCmd float64 // 速度指令
	Jerk   float64 // 本步加加速度

	Episode   int32 // 仿真轮数
	Success   int32 // 成功次数
	Collision int32 // 碰撞次数
	Round     int32 // 最近一次见到的仿真轮次ID

	Prior PriorAgentState // 最近一步选出的前车
	Yield bool            // 最近一步的让行决策
}

// ResetRound 新一轮仿真开始
// 功能：累加轮数，记录新的轮次ID，前车假设恢复为默认的远处车辆
// 说明：AccCmd、VelCmd、Jerk不重置，沿用上一轮末的值
func (p *Planner) ResetRound(s Session, round int32) Session {
	log.Infof("new simulation round %d started, resetting world", round)
	s.Episode++
	s.Round = round
	s.Prior = p.DefaultPriorAgent()
	return s
}
