package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/randengine"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := randengine.New(42), randengine.New(42)
	for range 10 {
		assert.Equal(t, a.Uniform(-3, 7), b.Uniform(-3, 7))
	}
}

func TestUniformRange(t *testing.T) {
	e := randengine.New(1)
	for range 1000 {
		x := e.Uniform(15, 60)
		assert.GreaterOrEqual(t, x, 15.0)
		assert.Less(t, x, 60.0)
	}
	assert.False(t, e.PTrue(0))
	assert.True(t, e.PTrue(1))
}
