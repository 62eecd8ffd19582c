package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/righthand-planner/clock"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
)

func TestClock(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 10, Total: 3, Interval: 0.5})
	assert.Equal(t, 5.0, c.T)
	assert.False(t, c.Done())
	c.Next()
	c.Next()
	assert.Equal(t, int32(2), c.Steps())
	assert.Equal(t, 6.0, c.T)
	assert.Equal(t, int32(6), c.Time().Sec)
	c.Next()
	assert.True(t, c.Done())
	c.Init()
	assert.Equal(t, int32(0), c.Steps())
}

func TestClockFormat(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 0, Total: 100000, Interval: 0.25})
	for range 14646 {
		c.Next()
	}
	// 14646*0.25 = 3661.5
	assert.Equal(t, "01:01:01.50", c.String())
	assert.Equal(t, int32(500000000), c.Time().Nsec)
}
