// 本地运动学路口场景，用于离线驱动规划器
package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/righthand-planner/clock"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/randengine"
)

const (
	rightLane = 1    // 右侧来车车道
	limitEps  = 1e-6 // 约束检查容差
)

// Scenario 路口场景
// 功能：主车沿x轴从起点驶向终点，横向车流沿y轴穿过冲突点(0,0)
// 说明：主车速度直接跟随控制指令；每轮结束时生成一份统计信息
type Scenario struct {
	cfg   config.Scenario
	maxA  float64
	clock *clock.Clock

	generator *randengine.Engine

	round    int32
	egoPos   float64
	egoVel   float64
	egoAcc   float64
	vehicles []*crossVehicle

	totalAcc        float64
	limitsRespected bool
}

// New 创建场景，第一轮需要调用Reset开始
func New(c config.Config) *Scenario {
	return &Scenario{
		cfg:       c.Scenario,
		maxA:      c.Planner.MaxA,
		clock:     clock.New(c.Control.Step),
		generator: randengine.New(c.Scenario.Seed),
	}
}

// Clock 场景使用的时钟
func (s *Scenario) Clock() *clock.Clock {
	return s.clock
}

// Round 当前轮次ID
func (s *Scenario) Round() int32 {
	return s.round
}

// Reset 开始新一轮
// 功能：轮次ID加1，重置主车状态与时钟，重新生成横向车流
func (s *Scenario) Reset() {
	s.round++
	s.clock.Init()
	s.egoPos = s.cfg.EgoStart
	s.egoVel = s.cfg.EgoSpeed
	s.egoAcc = 0
	s.totalAcc = 0
	s.limitsRespected = true
	s.vehicles = s.vehicles[:0]
	s.spawn(rightLane, -1)
	if s.cfg.LeftLane != 0 {
		s.spawn(s.cfg.LeftLane, 1)
	}
	log.Debugf("round %d: spawned %d vehicles", s.round, len(s.vehicles))
}

// spawn 在指定车道生成车队
// 参数：lane-车道ID，side-生成位置所在的y轴半边（-1为负半轴，1为正半轴）
// 算法说明：首车位于side*SpawnStart处，之后每辆车在上一辆车之后追加一个随机间距
func (s *Scenario) spawn(lane int32, side float64) {
	offset := s.cfg.SpawnStart
	for range s.cfg.CrossCount {
		s.vehicles = append(s.vehicles, &crossVehicle{
			id:    int32(len(s.vehicles)),
			lane:  lane,
			pos:   side * offset,
			speed: s.generator.Uniform(s.cfg.CrossSpeedMin, s.cfg.CrossSpeedMax),
			dir:   -side,
		})
		offset += s.generator.Uniform(s.cfg.SpawnGapMin, s.cfg.SpawnGapMax)
	}
}

// WorldState 生成当前时刻的世界状态消息
func (s *Scenario) WorldState() *protocol.WorldState {
	return &protocol.WorldState{
		SimulationRound: s.round,
		Time:            s.clock.Time(),
		EgoVehicle: protocol.EgoVehicle{
			Position: mgl64.Vec2{s.egoPos, 0},
			Velocity: mgl64.Vec2{s.egoVel, 0},
		},
		Vehicles: lo.Map(s.vehicles, func(v *crossVehicle, _ int) protocol.Vehicle {
			return v.toMessage()
		}),
	}
}

// Apply 执行一条控制指令并推进一步
// 返回：本轮结束时的统计信息及true；本轮未结束时返回nil及false
// 说明：轮次不匹配的指令被忽略，但时间照常推进
func (s *Scenario) Apply(cmd protocol.Command) (*protocol.Statistics, bool) {
	dt := s.clock.DT
	vel := s.egoVel
	if cmd.SimulationRound == s.round {
		vel = math.Max(cmd.EgoCarSpeed, 0)
	} else {
		log.Warnf("command for round %d ignored in round %d", cmd.SimulationRound, s.round)
	}
	acc := (vel - s.egoVel) / dt
	if math.Abs(acc) > s.maxA+limitEps || math.Abs(acc-s.egoAcc) > s.cfg.MaxJerk+limitEps {
		s.limitsRespected = false
	}
	s.totalAcc += math.Abs(acc)
	s.egoAcc = acc
	s.egoVel = vel
	s.egoPos += vel * dt
	for _, v := range s.vehicles {
		v.step(dt)
	}
	s.clock.Next()

	switch {
	case s.collided():
		log.Infof("round %d: collision at %s", s.round, s.clock)
		return s.statistics(false, true), true
	case s.egoPos >= s.cfg.Goal:
		log.Infof("round %d: goal reached at %s", s.round, s.clock)
		return s.statistics(true, false), true
	case s.clock.Done():
		log.Infof("round %d: step limit reached", s.round)
		return s.statistics(false, false), true
	}
	return nil, false
}

func (s *Scenario) collided() bool {
	if math.Abs(s.egoPos) >= s.cfg.CollisionBox {
		return false
	}
	return lo.SomeBy(s.vehicles, func(v *crossVehicle) bool {
		return math.Abs(v.pos) < s.cfg.CollisionBox
	})
}

func (s *Scenario) statistics(success, collision bool) *protocol.Statistics {
	return &protocol.Statistics{
		Success:                  success,
		CollisionDetected:        collision,
		SimulationTimeStepsTaken: s.clock.Steps(),
		TotalAcceleration:        s.totalAcc,
		LimitsRespected:          s.limitsRespected,
	}
}
