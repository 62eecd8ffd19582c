package planner

// Decide 让行决策
// 功能：前车已越过让行线且主车尚未通过自身参考点（位置<0）时让行
// 参数：egoPos-主车位置，priorPos-前车位置，yieldLine-让行线
// 返回：true表示让行，false表示通行
// 说明：每步重新计算，无滞回
func Decide(egoPos, priorPos, yieldLine float64) bool {
	return priorPos > yieldLine && egoPos < 0
}
