package task

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/righthand-planner/planner"
	"github.com/tsinghua-fib-lab/righthand-planner/recorder"
	"github.com/tsinghua-fib-lab/righthand-planner/server"
	"github.com/tsinghua-fib-lab/righthand-planner/sim"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
)

const (
	SelfName   = "planner"        // 本程序在任务集群中的名字
	BridgeName = "planner-bridge" // websocket桥在sidecar中的注册名
)

// waitForServerReady 等待服务器就绪
// 功能：通过HTTP请求检查服务器是否已经启动并可以响应
// 参数：addr-服务器地址，retryCount-重试次数，interval-重试间隔
// 返回：错误信息，如果服务器就绪则返回nil
func waitForServerReady(addr string, retryCount int, interval time.Duration) error {
	client := &http.Client{
		Timeout: interval,
	}
	for range retryCount {
		resp, err := client.Get(addr)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("server `%v` did not become ready after %d retries", addr, retryCount)
}

// Context 规划任务上下文
// 功能：包含一次规划任务的所有组件，替代全局变量
// 说明：服务模式下通过sidecar对外提供RPC与websocket接入；本地模式下由场景直接驱动控制器
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 辅助程序，处理分布式模式下相关调用，本地模式下为nil
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}
	// sidecar是否已启动
	serving bool

	// 运行时配置
	runtimeConfig config.Config

	// 规划控制器
	ctrl *planner.Controller
	// 本地场景
	scenario *sim.Scenario
	// 内存中的全部轮次统计，总是启用
	memory *recorder.Memory
	// 可选的MongoDB输出
	mongo *recorder.Mongo
}

// NewContext 创建新的规划任务上下文
// 参数：
//   - job: 任务名称
//   - c: 已校验的配置
//   - sidecar: sidecar实例，本地模式下可为nil
//   - mongo: 统计输出，可为nil
//
// 返回：初始化完成的Context实例
func NewContext(job string, c config.Config, sidecar *syncer.Sidecar, mongo *recorder.Mongo) *Context {
	ctx := &Context{
		job:            job,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
		runtimeConfig:  c,
		memory:         recorder.NewMemory(0),
		mongo:          mongo,
	}
	var rec planner.Recorder = ctx.memory
	if mongo != nil {
		rec = recorder.Tee{ctx.memory, mongo}
	}
	ctx.ctrl = planner.NewController(planner.New(c.Planner), rec)
	ctx.scenario = sim.New(c)
	return ctx
}

func (ctx *Context) Controller() *planner.Controller {
	return ctx.ctrl
}

func (ctx *Context) Records() []planner.RoundRecord {
	return ctx.memory.Records()
}

// Serve 在sidecar上注册RPC服务与websocket桥并启动服务
// 参数：probeAddr-用于探测服务是否就绪的HTTP地址，为空则不探测
func (ctx *Context) Serve(probeAddr string) error {
	if ctx.sidecar == nil {
		return fmt.Errorf("job %s: no sidecar to serve on", ctx.job)
	}
	ctx.sidecar.Register(server.ServiceName, server.NewService(ctx.ctrl).Handler, syncer.WithNoLock())
	ctx.sidecar.Register(BridgeName, server.NewBridge(ctx.ctrl).Handler, syncer.WithNoLock())

	// sidecar协程，用于提供RPC服务
	ctx.serving = true
	go func() {
		err := ctx.sidecar.Serve()
		if err != nil {
			log.Panicf("failed to serve: %v", err)
		}
		ctx.sidecarCloseCh <- struct{}{}
	}()
	if probeAddr == "" {
		return nil
	}
	if err := waitForServerReady(probeAddr, 50, 100*time.Millisecond); err != nil {
		return err
	}
	log.Infof("job %s: serving %s and %s", ctx.job, server.ServiceName, server.BridgePath)
	return nil
}

func (ctx *Context) Close() {
	if ctx.closed.Load() {
		return
	}
	ctx.closed.Store(true)
	if ctx.serving {
		ctx.sidecar.Close()
		// wait for graceful stop
		<-ctx.sidecarCloseCh
	}
	if ctx.mongo != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ctx.mongo.Close(closeCtx); err != nil {
			log.Errorf("close recorder: %v", err)
		}
	}
}
