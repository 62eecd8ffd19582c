package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/websocket"
	"github.com/tsinghua-fib-lab/righthand-planner/planner"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
)

// BridgePath websocket话题桥的路径
const BridgePath = "/ws"

// Envelope 话题消息
type Envelope struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Bridge websocket话题桥
// 功能：仿真器通过一条websocket连接发布world_state与statistics话题，
// 每收到一条world_state即在同一连接上回发一条client_command
// 说明：单连接内消息按顺序处理，格式错误的消息记录后丢弃
type Bridge struct {
	ctrl     *planner.Controller
	upgrader websocket.Upgrader
}

// NewBridge 创建话题桥
func NewBridge(ctrl *planner.Controller) *Bridge {
	return &Bridge{
		ctrl: ctrl,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler 与sidecar服务注册函数签名一致
func (b *Bridge) Handler(...connect.HandlerOption) (string, http.Handler) {
	return BridgePath, b
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	log.Infof("simulator connected: %s", r.RemoteAddr)
	defer func() {
		if err := recover(); err != nil {
			sentry.CurrentHub().Recover(err)
			log.Errorf("websocket session %s panic: %v", r.RemoteAddr, err)
		}
		conn.Close()
		log.Infof("simulator disconnected: %s", r.RemoteAddr)
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("read from %s: %v", r.RemoteAddr, err)
			}
			return
		}
		reply, err := b.dispatch(r, payload)
		if err != nil {
			log.Warnf("discarding message from %s: %v", r.RemoteAddr, err)
			continue
		}
		if reply == nil {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Warnf("write to %s: %v", r.RemoteAddr, err)
			return
		}
	}
}

// dispatch 按话题分发一条消息，返回需要回发的消息（可以为nil）
func (b *Bridge) dispatch(r *http.Request, payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	switch env.Topic {
	case protocol.TopicWorldState:
		var msg protocol.WorldState
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, fmt.Errorf("malformed %s: %w", env.Topic, err)
		}
		cmd := b.ctrl.HandleWorldState(r.Context(), &msg)
		data, err := json.Marshal(cmd)
		if err != nil {
			return nil, fmt.Errorf("marshal command: %w", err)
		}
		return &Envelope{Topic: protocol.TopicCommand, Payload: data}, nil
	case protocol.TopicStatistics:
		var msg protocol.Statistics
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, fmt.Errorf("malformed %s: %w", env.Topic, err)
		}
		b.ctrl.HandleStatistics(r.Context(), &msg)
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown topic %q", env.Topic)
	}
}
