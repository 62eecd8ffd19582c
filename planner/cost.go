package planner

// inBlockingZone 前车位于让行线与路口之间
func (p *Planner) inBlockingZone(pos float64) bool {
	return pos < 0 && pos > p.yieldLine
}

// countViolations 统计预测时域内的违规点数
// 功能：逐步检查主车与前车的预测位置是否落入危险区域
// 参数：ego-主车预测位置，prior-前车预测位置，yield-是否让行
// 返回：违规点数
// 算法说明：
// 1. 让行：前车仍在阻塞区内时主车越过安全距离，计1点
// 2. 通行：前车仍在阻塞区内时主车尚未通过路口，计1点
// 3. 与决策无关：两车同时距路口小于碰撞风险距离，计collisionWeight点
func (p *Planner) countViolations(ego, prior []float64, yield bool) (n int) {
	for k := len(ego) - 1; k >= 0; k-- {
		blocked := p.inBlockingZone(prior[k])
		if yield {
			if ego[k] > p.margin && blocked {
				n++
			}
		} else if ego[k] < 0 && blocked {
			n++
		}
		if abs(ego[k]) < p.proximity && abs(prior[k]) < p.proximity {
			n += p.collisionWeight
		}
	}
	return
}

// cost 候选加速度的代价
// 功能：Σ Cv*(vTarget - v(k))^2 + Ca*a^2 + n^2
// 参数：vel-主车当前速度，acc-候选加速度，violations-违规点数
// 说明：违规点数在整个时域上累计一次，再于每一步以平方形式计入
func (p *Planner) cost(vel, acc float64, violations int) (c float64) {
	penalty := float64(violations * violations)
	for k := 0; k < p.horizon; k++ {
		dv := p.targetV - (vel + acc*p.dt*float64(k))
		c += p.cv*dv*dv + p.ca*acc*acc + penalty
	}
	return
}

// EvaluateCandidates 代价评估
// 功能：对每个可行的候选加加速度预测主车轨迹并计算代价
// 参数：ego-主车状态，prior-前车状态，yield-让行决策，accCmd-上一步保留的加速度
// 返回：按候选顺序排列的可行候选
// 算法说明：
// 1. 预测前车轨迹（当前速度，加速度为0）
// 2. 候选加速度accCmd+j超出[minA, maxA]则跳过
// 3. 以试探速度v+j*dt、加速度j预测主车轨迹并统计违规点数
// 4. 计算代价
func (p *Planner) EvaluateCandidates(ego AgentState, prior PriorAgentState, yield bool, accCmd float64) []ScoredCandidate {
	priorPredicted := PredictPositions(prior.Position, prior.Velocity, prior.Acceleration, p.dt, p.horizon)
	candidates := make([]ScoredCandidate, 0, len(p.jerks))
	for _, j := range p.jerks {
		acc := accCmd + j
		if acc > p.maxA || acc < p.minA {
			continue
		}
		trialV := ego.Velocity + j*p.dt
		egoPredicted := PredictPositions(ego.Position, trialV, j, p.dt, p.horizon)
		n := p.countViolations(egoPredicted, priorPredicted, yield)
		candidates = append(candidates, ScoredCandidate{
			Jerk:         j,
			Acceleration: acc,
			Violations:   n,
			Cost:         p.cost(ego.Velocity, acc, n),
		})
	}
	return candidates
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
