package planner

import (
	"context"
	"sync"
	"time"

	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
)

// RoundRecord 一轮仿真的统计记录
type RoundRecord struct {
	Round      int32               `bson:"round" json:"round"`
	Episode    int32               `bson:"episode" json:"episode"`
	Success    int32               `bson:"success" json:"success"`
	Collision  int32               `bson:"collision" json:"collision"`
	Stats      protocol.Statistics `bson:"stats" json:"stats"`
	RecordedAt time.Time           `bson:"recorded_at" json:"recorded_at"`
}

// Recorder 轮次统计记录器
type Recorder interface {
	Record(ctx context.Context, r RoundRecord) error
}

// Controller 规划控制器
// 功能：持有会话状态，将世界状态与统计两个入口串行化，并把每轮统计交给记录器
// 说明：传输层可能在不同协程上投递消息，因此两个入口共用一把互斥锁
type Controller struct {
	planner  *Planner
	recorder Recorder // 可以为nil

	mtx     sync.Mutex
	session Session
}

// NewController 创建控制器，recorder可以为nil
func NewController(p *Planner, recorder Recorder) *Controller {
	return &Controller{
		planner:  p,
		recorder: recorder,
		session:  p.NewSession(),
	}
}

// HandleWorldState 处理世界状态，返回速度指令
func (c *Controller) HandleWorldState(ctx context.Context, msg *protocol.WorldState) protocol.Command {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	log.Debugf("simulation round: %d; time: %.3f; vehicles: %d",
		msg.SimulationRound, msg.Time.Seconds(), len(msg.Vehicles))
	var cmd protocol.Command
	c.session, cmd = c.planner.OnWorldState(c.session, msg)
	return cmd
}

// HandleStatistics 处理上一轮的统计结果
// 功能：更新成功、碰撞计数，输出成功率，并写入记录器
// 说明：记录失败只打印错误，不影响规划
func (c *Controller) HandleStatistics(ctx context.Context, msg *protocol.Statistics) protocol.StatisticsAck {
	c.mtx.Lock()
	c.session = c.planner.OnStatistics(c.session, msg)
	s := c.session
	c.mtx.Unlock()

	log.Infof(
		"statistics from previous round: success=%v collision=%v steps=%d total_acceleration=%.3f limits_respected=%v",
		msg.Success, msg.CollisionDetected, msg.SimulationTimeStepsTaken, msg.TotalAcceleration, msg.LimitsRespected,
	)
	log.Infof("success rate is %d/%d, collisions %d", s.Success, s.Episode, s.Collision)
	if c.recorder != nil {
		r := RoundRecord{
			Round:      s.Round,
			Episode:    s.Episode,
			Success:    s.Success,
			Collision:  s.Collision,
			Stats:      *msg,
			RecordedAt: time.Now(),
		}
		if err := c.recorder.Record(ctx, r); err != nil {
			log.Errorf("failed to record round %d: %v", s.Round, err)
		}
	}
	return protocol.StatisticsAck{Episode: s.Episode, Success: s.Success}
}

// Session 返回当前会话状态的副本
func (c *Controller) Session() Session {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.session
}
