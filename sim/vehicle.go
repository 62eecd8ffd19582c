package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tsinghua-fib-lab/righthand-planner/protocol"
)

// crossVehicle 横向车流中的一辆车，沿y轴匀速行驶，不让行
type crossVehicle struct {
	id    int32
	lane  int32
	pos   float64 // y坐标，冲突点为0
	speed float64 // 速率（非负）
	dir   float64 // +1：自y负方向驶来（右侧）；-1：自y正方向驶来（左侧）
}

func (v *crossVehicle) step(dt float64) {
	v.pos += v.dir * v.speed * dt
}

func (v *crossVehicle) toMessage() protocol.Vehicle {
	return protocol.Vehicle{
		VehicleID: v.id,
		LaneID:    v.lane,
		Position:  mgl64.Vec2{0, v.pos},
		Velocity:  mgl64.Vec2{0, v.dir * v.speed},
	}
}
