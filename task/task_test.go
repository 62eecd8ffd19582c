package task

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
	"github.com/tsinghua-fib-lab/righthand-planner/server"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
)

func testConfig() config.Config {
	c := config.Default()
	c.Control.Step.Total = 200
	c.Control.Rounds = 3
	return c
}

func TestRunLocalRecordsEveryRound(t *testing.T) {
	ctx := NewContext("test", testConfig(), nil, nil)
	defer ctx.Close()
	ctx.RunLocal(0)

	records := ctx.Records()
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, int32(i+1), r.Round)
		assert.Equal(t, int32(i+1), r.Episode)
		assert.LessOrEqual(t, r.Stats.SimulationTimeStepsTaken, int32(200))
		assert.Positive(t, r.Stats.SimulationTimeStepsTaken)
	}
	s := ctx.Controller().Session()
	assert.Equal(t, int32(3), s.Episode)
	assert.Equal(t, int32(3), s.Round)
}

func TestRunLocalExplicitRounds(t *testing.T) {
	ctx := NewContext("test", testConfig(), nil, nil)
	defer ctx.Close()
	ctx.RunLocal(1)
	assert.Len(t, ctx.Records(), 1)
}

func TestRunLocalKeepsRoundsBeyondConfig(t *testing.T) {
	ctx := NewContext("test", testConfig(), nil, nil)
	defer ctx.Close()
	ctx.RunLocal(5)

	records := ctx.Records()
	require.Len(t, records, 5)
	assert.Equal(t, int32(1), records[0].Round)
	assert.Equal(t, int32(5), records[4].Round)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServeOnStandaloneSidecar(t *testing.T) {
	addr := freeAddr(t)
	ctx := NewContext("test", testConfig(), syncer.NewSidecar(SelfName, addr, ""), nil)
	defer ctx.Close()
	require.NoError(t, ctx.Serve("http://"+addr+"/"))

	msg := &protocol.WorldState{SimulationRound: 1}
	msg.EgoVehicle.Position[0] = -30
	msg.EgoVehicle.Velocity[0] = 10

	// connect一元调用
	client := server.NewClient(http.DefaultClient, "http://"+addr)
	cmd, err := client.SendWorldState(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cmd.SimulationRound)
	assert.InDelta(t, 10.0, cmd.EgoCarSpeed, 0.02)

	// websocket话题桥
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+server.BridgePath, nil)
	require.NoError(t, err)
	defer conn.Close()
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(server.Envelope{Topic: protocol.TopicWorldState, Payload: payload}))

	var reply server.Envelope
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, protocol.TopicCommand, reply.Topic)
	var wsCmd protocol.Command
	require.NoError(t, json.Unmarshal(reply.Payload, &wsCmd))
	assert.Equal(t, int32(1), wsCmd.SimulationRound)
	assert.InDelta(t, 10.0, wsCmd.EgoCarSpeed, 0.02)
	assert.Equal(t, int32(1), ctx.Controller().Session().Episode)
}

func TestClosedContextDoesNotRun(t *testing.T) {
	ctx := NewContext("test", testConfig(), nil, nil)
	ctx.Close()
	ctx.RunLocal(0)
	assert.Empty(t, ctx.Records())
}

func TestServeWithoutSidecar(t *testing.T) {
	ctx := NewContext("test", testConfig(), nil, nil)
	defer ctx.Close()
	assert.Error(t, ctx.Serve(""))
}
