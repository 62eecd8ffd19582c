package planner_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/righthand-planner/planner"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
)

type fakeRecorder struct {
	mtx     sync.Mutex
	records []planner.RoundRecord
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, rec planner.RoundRecord) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

func TestControllerHandleWorldState(t *testing.T) {
	p, c := newPlanner(t)
	ctrl := planner.NewController(p, nil)

	cmd := ctrl.HandleWorldState(context.Background(), worldState(4, -40, 10))
	assert.Equal(t, int32(4), cmd.SimulationRound)
	assert.GreaterOrEqual(t, cmd.EgoCarSpeed, c.MinV)
	assert.LessOrEqual(t, cmd.EgoCarSpeed, c.MaxV)

	s := ctrl.Session()
	assert.Equal(t, int32(1), s.Episode)
	assert.Equal(t, int32(4), s.Round)
	assert.Equal(t, cmd.EgoCarSpeed, s.VelCmd)
}

func TestControllerHandleStatistics(t *testing.T) {
	p, _ := newPlanner(t)
	rec := &fakeRecorder{}
	ctrl := planner.NewController(p, rec)

	ctrl.HandleWorldState(context.Background(), worldState(1, -40, 10))
	ack := ctrl.HandleStatistics(context.Background(), &protocol.Statistics{
		Success:                  true,
		SimulationTimeStepsTaken: 120,
		TotalAcceleration:        3.5,
		LimitsRespected:          true,
	})
	assert.Equal(t, int32(1), ack.Episode)
	assert.Equal(t, int32(1), ack.Success)

	require.Len(t, rec.records, 1)
	r := rec.records[0]
	assert.Equal(t, int32(1), r.Round)
	assert.Equal(t, int32(1), r.Success)
	assert.Equal(t, int32(120), r.Stats.SimulationTimeStepsTaken)
	assert.False(t, r.RecordedAt.IsZero())

	// 记录失败不影响计数
	rec.err = errors.New("unavailable")
	ack = ctrl.HandleStatistics(context.Background(), &protocol.Statistics{CollisionDetected: true})
	assert.Equal(t, int32(1), ack.Success)
	assert.Equal(t, int32(1), ctrl.Session().Collision)
	assert.Len(t, rec.records, 2)
}

func TestControllerConcurrentHandlers(t *testing.T) {
	p, _ := newPlanner(t)
	ctrl := planner.NewController(p, nil)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ctrl.HandleWorldState(context.Background(), worldState(1, -40+float64(i), 10))
		}()
		go func() {
			defer wg.Done()
			ctrl.HandleStatistics(context.Background(), &protocol.Statistics{Success: true})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(8), ctrl.Session().Success)
	assert.Equal(t, int32(1), ctrl.Session().Episode)
}
