package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
)

// Clock 仿真时钟
// 功能：管理本地场景每一轮内的时间推进
// 说明：每轮开始时Init，步数区间为[START_STEP, END_STEP)
type Clock struct {
	DT         float64 // 每步时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数
}

// New 根据配置创建新的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 重置到起始步
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Next 前进一步
func (c *Clock) Next() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Done 是否已到达结束步
func (c *Clock) Done() bool {
	return c.InternalStep >= c.END_STEP
}

// Steps 本轮已经走过的步数
func (c *Clock) Steps() int32 {
	return c.InternalStep - c.START_STEP
}

// Time 转换为消息中的时间格式
func (c *Clock) Time() protocol.Time {
	sec := int32(c.T)
	return protocol.Time{
		Sec:  sec,
		Nsec: int32((c.T - float64(sec)) * 1e9),
	}
}

// String 格式化为 HH:MM:SS.ss
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	return fmt.Sprintf("%02d:%02d:%05.2f", h, m, t)
}
