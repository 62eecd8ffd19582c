package planner

// PredictPositions 匀加速预测
// 功能：预测车辆在未来horizon步内的位置
// 参数：pos-当前位置，vel-当前速度，acc-恒定加速度，dt-步长，horizon-步数
// 返回：长度为horizon的位置序列，第k项为k*dt时刻的位置
// 算法说明：x(k) = x0 + v0*k*dt + 0.5*a*(k*dt)^2
func PredictPositions(pos, vel, acc, dt float64, horizon int) []float64 {
	predicted := make([]float64, horizon)
	for k := range predicted {
		t := float64(k) * dt
		predicted[k] = pos + vel*t + 0.5*acc*t*t
	}
	return predicted
}
