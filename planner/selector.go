package planner

// YieldLists 右侧来车的分类结果
// 功能：按让行线将交互车道上的右侧来车分为“需要让行”和“可以超越”两组
// 说明：每步重建，不跨步保留；位置与速度两两对应
type YieldLists struct {
	YieldPos   []float64 // 已越过让行线、需要让行的车辆位置
	YieldVel   []float64
	SurpassPos []float64 // 尚未到达让行线、可以超越的车辆位置
	SurpassVel []float64
}

// Classify 对可见车辆进行让行分类
// 功能：筛选交互车道上来自右侧（位置为负）的车辆，并按让行线分组
// 参数：agents-可见车辆，lane-交互车道ID，yieldLine-让行线（负值）
// 返回：分类结果
// 算法说明：
// 1. 只保留车道ID等于lane且位置小于0的车辆
// 2. 位置严格大于yieldLine（已越过让行线、靠近路口）的车辆加入让行组
// 3. 其余（位于让行线或更远处）加入超越组
func Classify(agents []AgentState, lane int32, yieldLine float64) (l YieldLists) {
	for _, a := range agents {
		if a.LaneID != lane || a.Position >= 0 {
			continue
		}
		if a.Position > yieldLine {
			l.YieldPos = append(l.YieldPos, a.Position)
			l.YieldVel = append(l.YieldVel, a.Velocity)
		} else {
			l.SurpassPos = append(l.SurpassPos, a.Position)
			l.SurpassVel = append(l.SurpassVel, a.Velocity)
		}
	}
	return
}

// argMin 返回第一个最小值的下标
func argMin(xs []float64) int {
	idx := 0
	for i, x := range xs {
		if x < xs[idx] {
			idx = i
		}
	}
	return idx
}

// argMax 返回第一个最大值的下标
func argMax(xs []float64) int {
	idx := 0
	for i, x := range xs {
		if x > xs[idx] {
			idx = i
		}
	}
	return idx
}

// SelectPriorAgent 选择前车
// 功能：根据右侧来车的让行分类确定本步需要响应的唯一车辆
// 参数：agents-可见车辆，lane-交互车道ID，yieldLine-让行线，fallback-无来车时使用的默认前车
// 返回：前车状态（加速度恒为0）
// 算法说明：
// 1. 让行组取位置最小者（让行区内最靠后的车），超越组取位置最大者（让行线外最靠近路口的车）
// 2. 两组均非空：若两者间距小于让行线距离（surpass-yield > yieldLine），
//    超越组的车紧随其后，以其为前车；否则以让行组的车为前车
// 3. 只有一组非空：取该组的代表车辆
// 4. 两组均为空：返回fallback
// 说明：并列时取输入顺序中的第一个
func SelectPriorAgent(agents []AgentState, lane int32, yieldLine float64, fallback PriorAgentState) PriorAgentState {
	l := Classify(agents, lane, yieldLine)
	hasYield, hasSurpass := len(l.YieldPos) > 0, len(l.SurpassPos) > 0
	switch {
	case hasYield && hasSurpass:
		yi := argMin(l.YieldPos)
		si := argMax(l.SurpassPos)
		if l.SurpassPos[si]-l.YieldPos[yi] > yieldLine {
			return PriorAgentState{Position: l.SurpassPos[si], Velocity: l.SurpassVel[si]}
		}
		return PriorAgentState{Position: l.YieldPos[yi], Velocity: l.YieldVel[yi]}
	case hasYield:
		yi := argMin(l.YieldPos)
		return PriorAgentState{Position: l.YieldPos[yi], Velocity: l.YieldVel[yi]}
	case hasSurpass:
		si := argMax(l.SurpassPos)
		return PriorAgentState{Position: l.SurpassPos[si], Velocity: l.SurpassVel[si]}
	default:
		return fallback
	}
}
