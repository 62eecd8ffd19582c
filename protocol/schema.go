// 与仿真器交换的消息定义，字段名与仿真器的world_state、statistics、client_command话题保持一致
package protocol

import "github.com/go-gl/mathgl/mgl64"

// Time 仿真时间
type Time struct {
	Sec  int32 `json:"sec"`
	Nsec int32 `json:"nsec"`
}

// Seconds 转换为秒
func (t Time) Seconds() float64 {
	return float64(t.Sec) + float64(t.Nsec)*1e-9
}

// EgoVehicle 主车状态（二维，规划器只使用x轴）
type EgoVehicle struct {
	Position mgl64.Vec2 `json:"position"`
	Velocity mgl64.Vec2 `json:"velocity"`
}

// Vehicle 其他车辆状态（二维，交叉车流沿y轴行驶）
type Vehicle struct {
	VehicleID int32      `json:"vehicle_id"`
	LaneID    int32      `json:"lane_id"`
	Position  mgl64.Vec2 `json:"position"`
	Velocity  mgl64.Vec2 `json:"velocity"`
}

// WorldState 每个仿真步下发一次的世界状态
type WorldState struct {
	SimulationRound int32      `json:"simulation_round"`
	Time            Time       `json:"time"`
	EgoVehicle      EgoVehicle `json:"ego_vehicle"`
	Vehicles        []Vehicle  `json:"vehicles"`
}

// Statistics 上一轮仿真的统计结果
type Statistics struct {
	Success                  bool    `json:"success"`
	CollisionDetected        bool    `json:"collision_detected"`
	SimulationTimeStepsTaken int32   `json:"simulation_time_steps_taken"`
	TotalAcceleration        float64 `json:"total_acceleration"`
	LimitsRespected          bool    `json:"limits_respected"`
}

// StatisticsAck 统计消息的应答
type StatisticsAck struct {
	Episode int32 `json:"episode"`
	Success int32 `json:"success"`
}

// Command 发送给主车的速度指令
type Command struct {
	SimulationRound int32   `json:"simulation_round"`
	EgoCarSpeed     float64 `json:"ego_car_speed"`
}

// 话题名
const (
	TopicWorldState = "world_state"
	TopicStatistics = "statistics"
	TopicCommand    = "client_command"
)
