package task

import (
	"context"
	"flag"
	"time"

	"github.com/getsentry/sentry-go"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// heartbeat 心跳日志，每heartBeatInterval步输出一次
func (ctx *Context) heartbeat() {
	c := ctx.scenario.Clock()
	if *heartBeatInterval > 0 && c.InternalStep%int32(*heartBeatInterval) == 0 {
		s := ctx.ctrl.Session()
		log.Infof(
			"ROUND %d STEP: %d(%s) v_cmd=%.3f a_cmd=%.3f yield=%v %v",
			ctx.scenario.Round(), c.InternalStep, c, s.VelCmd, s.AccCmd, s.Yield, s.Prior,
		)
	}
}

// runRound 运行一轮本地场景
// 算法说明：
// 1. 场景生成世界状态，交给控制器得到速度指令
// 2. 场景执行指令并推进一步
// 3. 本轮结束时把统计信息交给控制器
func (ctx *Context) runRound(bg context.Context) {
	ctx.scenario.Reset()
	for !ctx.closed.Load() {
		cmd := ctx.ctrl.HandleWorldState(bg, ctx.scenario.WorldState())
		stats, done := ctx.scenario.Apply(cmd)
		ctx.heartbeat()
		if done {
			ctx.ctrl.HandleStatistics(bg, stats)
			return
		}
	}
}

// RunLocal 在本地场景中运行rounds轮，rounds<=0时使用配置中的轮数
func (ctx *Context) RunLocal(rounds int32) {
	if rounds <= 0 {
		rounds = ctx.runtimeConfig.Control.Rounds
	}
	defer func() {
		if err := recover(); err != nil {
			sentry.CurrentHub().Recover(err)
			sentry.Flush(2 * time.Second)
			panic(err)
		}
	}()
	bg := context.Background()
	for r := int32(0); r < rounds && !ctx.closed.Load(); r++ {
		ctx.runRound(bg)
	}
	s := ctx.ctrl.Session()
	log.Infof("local run complete: episodes=%d success=%d collision=%d rate=%.2f",
		s.Episode, s.Success, s.Collision, ctx.memory.SuccessRate())
}
