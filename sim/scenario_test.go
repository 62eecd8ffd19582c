package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
)

func newTestScenario(edit func(c *config.Config)) *Scenario {
	c := config.Default()
	if edit != nil {
		edit(&c)
	}
	s := New(c)
	s.Reset()
	return s
}

func hold(s *Scenario, speed float64) protocol.Command {
	return protocol.Command{SimulationRound: s.Round(), EgoCarSpeed: speed}
}

func TestResetSpawnsBothLanes(t *testing.T) {
	s := newTestScenario(nil)
	msg := s.WorldState()
	assert.Equal(t, int32(1), msg.SimulationRound)
	assert.Equal(t, -60.0, msg.EgoVehicle.Position.X())
	assert.Equal(t, 10.0, msg.EgoVehicle.Velocity.X())
	require.Len(t, msg.Vehicles, 8)

	right, left := 0, 0
	for _, v := range msg.Vehicles {
		switch v.LaneID {
		case 1:
			right++
			assert.LessOrEqual(t, v.Position.Y(), -60.0)
			assert.Greater(t, v.Velocity.Y(), 0.0)
		case 2:
			left++
			assert.GreaterOrEqual(t, v.Position.Y(), 60.0)
			assert.Less(t, v.Velocity.Y(), 0.0)
		}
		assert.GreaterOrEqual(t, abs(v.Velocity.Y()), 6.0)
		assert.LessOrEqual(t, abs(v.Velocity.Y()), 12.0)
	}
	assert.Equal(t, 4, right)
	assert.Equal(t, 4, left)

	s.Reset()
	assert.Equal(t, int32(2), s.Round())
	assert.Len(t, s.WorldState().Vehicles, 8)
}

func TestNoLeftLane(t *testing.T) {
	s := newTestScenario(func(c *config.Config) { c.Scenario.LeftLane = 0 })
	assert.Len(t, s.WorldState().Vehicles, 4)
}

func TestSameSeedSameTraffic(t *testing.T) {
	a, b := newTestScenario(nil), newTestScenario(nil)
	assert.Equal(t, a.WorldState(), b.WorldState())
}

func TestGoalReached(t *testing.T) {
	s := newTestScenario(func(c *config.Config) { c.Scenario.CrossCount = 0 })
	var stats *protocol.Statistics
	done := false
	for !done {
		stats, done = s.Apply(hold(s, 10))
	}
	require.NotNil(t, stats)
	assert.True(t, stats.Success)
	assert.False(t, stats.CollisionDetected)
	assert.Equal(t, int32(80), stats.SimulationTimeStepsTaken)
	assert.InDelta(t, 0.0, stats.TotalAcceleration, 1e-9)
	assert.True(t, stats.LimitsRespected)
}

func TestCollision(t *testing.T) {
	s := newTestScenario(func(c *config.Config) {
		c.Scenario.CrossCount = 0
		c.Scenario.EgoStart = -1
		c.Scenario.EgoSpeed = 0
	})
	s.vehicles = append(s.vehicles, &crossVehicle{id: 0, lane: 1, pos: -0.5, dir: 1})
	stats, done := s.Apply(hold(s, 0))
	require.True(t, done)
	assert.True(t, stats.CollisionDetected)
	assert.False(t, stats.Success)
	assert.Equal(t, int32(1), stats.SimulationTimeStepsTaken)
}

func TestStepLimit(t *testing.T) {
	s := newTestScenario(func(c *config.Config) {
		c.Scenario.CrossCount = 0
		c.Scenario.EgoSpeed = 0
		c.Control.Step.Total = 5
	})
	for i := range 4 {
		_, done := s.Apply(hold(s, 0))
		assert.False(t, done, "step %d", i)
	}
	stats, done := s.Apply(hold(s, 0))
	require.True(t, done)
	assert.False(t, stats.Success)
	assert.False(t, stats.CollisionDetected)
	assert.Equal(t, int32(5), stats.SimulationTimeStepsTaken)
}

func TestLimitsViolated(t *testing.T) {
	s := newTestScenario(func(c *config.Config) {
		c.Scenario.CrossCount = 0
		c.Control.Step.Total = 1
	})
	stats, done := s.Apply(hold(s, 15))
	require.True(t, done)
	assert.False(t, stats.LimitsRespected)
	assert.InDelta(t, 50.0, stats.TotalAcceleration, 1e-6)
}

func TestStaleCommandIgnored(t *testing.T) {
	s := newTestScenario(func(c *config.Config) { c.Scenario.CrossCount = 0 })
	s.Apply(protocol.Command{SimulationRound: s.Round() + 1, EgoCarSpeed: 0})
	msg := s.WorldState()
	assert.Equal(t, 10.0, msg.EgoVehicle.Velocity.X())
	assert.InDelta(t, -59.0, msg.EgoVehicle.Position.X(), 1e-9)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
