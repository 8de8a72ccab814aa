package systems

import (
	"math"

	"github.com/pthm-cable/swarmsort/components"
)

// MoveTowards returns the velocity that carries pos toward target at speed,
// and the heading of that velocity. When pos and target coincide the velocity
// is zero and ok is false; callers keep their previous heading.
func MoveTowards(pos, target components.Position, speed float32) (vel components.Velocity, heading float32, ok bool) {
	dx := target.X - pos.X
	dy := target.Y - pos.Y
	distSq := dx*dx + dy*dy
	if distSq == 0 {
		return components.Velocity{}, 0, false
	}
	inv := speed / float32(math.Sqrt(float64(distSq)))
	heading = float32(math.Atan2(float64(dy), float64(dx)))
	return components.Velocity{X: dx * inv, Y: dy * inv}, heading, true
}

// Steer overwrites vel and rot so the body flies from pos toward target.
// It is a kinematic command: the previous velocity is discarded.
func Steer(pos components.Position, vel *components.Velocity, rot *components.Rotation, target components.Position, speed float32) {
	v, heading, ok := MoveTowards(pos, target, speed)
	*vel = v
	if ok {
		rot.Heading = heading
		rot.AngVel = 0
	}
}

// PushTowards returns the velocity commanded on a claimed resource so it
// travels to its zone slightly faster than the ship escorting it.
func PushTowards(resPos, zone components.Position, shipSpeed, multiplier float32) components.Velocity {
	v, _, _ := MoveTowards(resPos, zone, shipSpeed*multiplier)
	return v
}

// WithinPush reports whether a ship touches its resource closely enough to push it.
func WithinPush(shipPos, resPos components.Position, shipRadius, resRadius float32) bool {
	reach := shipRadius + resRadius
	return DistSq(shipPos, resPos) < reach*reach
}

// DistSq returns the squared distance between two positions.
func DistSq(a, b components.Position) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
