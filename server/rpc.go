package server

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/righthand-planner/planner"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
)

const (
	// ServiceName 规划服务名
	ServiceName = "righthand.planner.v1.PlannerService"

	WorldStateProcedure = "/" + ServiceName + "/WorldState"
	StatisticsProcedure = "/" + ServiceName + "/Statistics"
)

// Service 规划RPC服务
// 功能：将world_state与statistics两个入口以connect一元调用的形式暴露
type Service struct {
	ctrl *planner.Controller
}

// NewService 创建规划RPC服务
func NewService(ctrl *planner.Controller) *Service {
	return &Service{ctrl: ctrl}
}

// Handler 构造HTTP处理器，签名与sidecar的服务注册函数一致
// 参数：opts-外部传入的处理器选项
// 返回：服务路径前缀与处理器
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(JSONCodec{}))
	mux := http.NewServeMux()
	mux.Handle(WorldStateProcedure, connect.NewUnaryHandler(WorldStateProcedure, s.WorldState, opts...))
	mux.Handle(StatisticsProcedure, connect.NewUnaryHandler(StatisticsProcedure, s.Statistics, opts...))
	return "/" + ServiceName + "/", mux
}

// WorldState 处理世界状态并返回速度指令
func (s *Service) WorldState(
	ctx context.Context, in *connect.Request[protocol.WorldState],
) (*connect.Response[protocol.Command], error) {
	if in.Msg == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("empty world state"))
	}
	cmd := s.ctrl.HandleWorldState(ctx, in.Msg)
	return connect.NewResponse(&cmd), nil
}

// Statistics 处理上一轮统计
func (s *Service) Statistics(
	ctx context.Context, in *connect.Request[protocol.Statistics],
) (*connect.Response[protocol.StatisticsAck], error) {
	if in.Msg == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("empty statistics"))
	}
	ack := s.ctrl.HandleStatistics(ctx, in.Msg)
	return connect.NewResponse(&ack), nil
}

// Client 规划服务客户端，供仿真器侧或测试使用
type Client struct {
	worldState *connect.Client[protocol.WorldState, protocol.Command]
	statistics *connect.Client[protocol.Statistics, protocol.StatisticsAck]
}

// NewClient 创建客户端
// 参数：httpClient-HTTP客户端，baseURL-服务地址（例如http://localhost:51103）
func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	return &Client{
		worldState: connect.NewClient[protocol.WorldState, protocol.Command](
			httpClient, baseURL+WorldStateProcedure, connect.WithCodec(JSONCodec{}),
		),
		statistics: connect.NewClient[protocol.Statistics, protocol.StatisticsAck](
			httpClient, baseURL+StatisticsProcedure, connect.WithCodec(JSONCodec{}),
		),
	}
}

// SendWorldState 发送世界状态并等待速度指令
func (c *Client) SendWorldState(ctx context.Context, msg *protocol.WorldState) (*protocol.Command, error) {
	res, err := c.worldState.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

// SendStatistics 发送统计
func (c *Client) SendStatistics(ctx context.Context, msg *protocol.Statistics) (*protocol.StatisticsAck, error) {
	res, err := c.statistics.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}
