package config

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gopkg.in/yaml.v2"
)

var (
	ErrNoZeroJerk = errors.New("jerks must contain 0 so that the current acceleration is always feasible")
)

// Default 默认配置
// 功能：返回与仿真器客户端一致的默认参数
// 返回：默认配置
func Default() Config {
	return Config{
		Planner: Planner{
			Horizon:              50,
			DT:                   0.1,
			Cv:                   1.0,
			Ca:                   2.0,
			Margin:               -10,
			TargetV:              20,
			MinA:                 -1.99,
			MaxA:                 1.99,
			MinV:                 0,
			MaxV:                 20,
			Jerks:                []float64{-0.19, -0.1, 0, 0.1, 0.19},
			YieldLine:            -20,
			InteractionLane:      1,
			CollisionProximity:   5,
			CollisionWeight:      10,
			DefaultPriorPosition: 50,
		},
		Control: Control{
			Step: ControlStep{
				Start:    0,
				Total:    600,
				Interval: 0.1,
			},
			Rounds: 10,
		},
		Scenario: Scenario{
			Seed:          1,
			EgoStart:      -60,
			EgoSpeed:      10,
			Goal:          20,
			CollisionBox:  2.5,
			SpawnStart:    60,
			SpawnGapMin:   15,
			SpawnGapMax:   60,
			CrossSpeedMin: 6,
			CrossSpeedMax: 12,
			CrossCount:    4,
			LeftLane:      2,
			MaxJerk:       0.2,
		},
	}
}

// Parse 解析YAML配置
// 功能：在默认配置的基础上严格解析YAML数据并校验
// 参数：data-YAML数据
// 返回：配置与错误
// 说明：未出现在YAML中的字段保留默认值，未知字段报错
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate 校验配置
// 功能：拒绝无法保证每步至少存在一个可行候选的参数组合
// 返回：错误信息，合法则返回nil
// 说明：保留加速度在[min_a, max_a]内，因此只要0在候选集合中且区间包含0，零加加速度候选恒可行
func (c Config) Validate() error {
	p := c.Planner
	if p.Horizon <= 0 {
		return fmt.Errorf("planner.horizon must be positive, got %d", p.Horizon)
	}
	if p.DT <= 0 {
		return fmt.Errorf("planner.dt must be positive, got %v", p.DT)
	}
	if p.MinA > p.MaxA {
		return fmt.Errorf("planner.min_a %v > planner.max_a %v", p.MinA, p.MaxA)
	}
	if p.MinA > 0 || p.MaxA < 0 {
		return fmt.Errorf("planner acceleration range [%v, %v] must contain 0", p.MinA, p.MaxA)
	}
	if p.MinV > p.MaxV {
		return fmt.Errorf("planner.min_v %v > planner.max_v %v", p.MinV, p.MaxV)
	}
	if !lo.Contains(p.Jerks, 0) {
		return ErrNoZeroJerk
	}
	if p.YieldLine >= 0 {
		return fmt.Errorf("planner.yield_line must be negative, got %v", p.YieldLine)
	}
	if c.Control.Step.Interval <= 0 {
		return fmt.Errorf("control.step.interval must be positive, got %v", c.Control.Step.Interval)
	}
	if s := c.Scenario; s.SpawnGapMin > s.SpawnGapMax || s.CrossSpeedMin > s.CrossSpeedMax {
		return fmt.Errorf("scenario ranges are inverted: gap [%v, %v], speed [%v, %v]",
			s.SpawnGapMin, s.SpawnGapMax, s.CrossSpeedMin, s.CrossSpeedMax)
	}
	return nil
}
