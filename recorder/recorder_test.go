package recorder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/righthand-planner/planner"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
	"github.com/tsinghua-fib-lab/righthand-planner/recorder"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
)

func record(round int32, success bool) planner.RoundRecord {
	return planner.RoundRecord{Round: round, Stats: protocol.Statistics{Success: success}}
}

func TestMemoryOrderAndCapacity(t *testing.T) {
	m := recorder.NewMemory(2)
	ctx := context.Background()
	require.NoError(t, m.Record(ctx, record(1, true)))
	require.NoError(t, m.Record(ctx, record(2, false)))
	require.NoError(t, m.Record(ctx, record(3, true)))

	rounds := []int32{}
	for _, r := range m.Records() {
		rounds = append(rounds, r.Round)
	}
	assert.Equal(t, []int32{2, 3}, rounds)
	_, ok := m.Get(1)
	assert.False(t, ok)
	assert.InDelta(t, 0.5, m.SuccessRate(), 1e-12)

	// 重复写入覆盖且不改变顺序
	require.NoError(t, m.Record(ctx, record(2, true)))
	r, ok := m.Get(2)
	require.True(t, ok)
	assert.True(t, r.Stats.Success)
	assert.Equal(t, int32(2), m.Records()[0].Round)
}

func TestMemoryEmpty(t *testing.T) {
	m := recorder.NewMemory(0)
	assert.Empty(t, m.Records())
	assert.Equal(t, 0.0, m.SuccessRate())
}

type failing struct{}

func (failing) Record(context.Context, planner.RoundRecord) error { return errors.New("boom") }

func TestTee(t *testing.T) {
	m := recorder.NewMemory(0)
	err := recorder.Tee{m, failing{}}.Record(context.Background(), record(7, true))
	assert.Error(t, err)
	_, ok := m.Get(7)
	assert.True(t, ok)

	assert.NoError(t, recorder.Tee{m}.Record(context.Background(), record(8, false)))
}

func TestNewMongoRequiresTarget(t *testing.T) {
	_, err := recorder.NewMongo(context.Background(), config.Output{URI: "mongodb://localhost:27017"})
	assert.Error(t, err)
}
