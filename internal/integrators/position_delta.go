package integrators

import "github.com/san-kum/particles/internal/dynamo"

// MinDt is the smallest frame delta ever used for a step. The first frame
// has no prior timing, so callers start from MinDt instead of zero.
const MinDt = 1e-8

// ClampDt returns dt, or floor when dt is below floor, zero, negative or NaN.
// A non-positive floor falls back to MinDt.
func ClampDt(dt, floor float64) float64 {
	if !(floor > 0) {
		floor = MinDt
	}
	if !(dt >= floor) {
		return floor
	}
	return dt
}

// PositionDelta advances one frame assuming the acceleration acc is constant
// across it:
//
//	x' = x + v*dt + 0.5*acc*dt^2
//	v' = (x' - x) / dt
//
// Velocity is the realised displacement over the frame, not v + acc*dt. A
// position later corrected by a collision pass therefore always agrees with
// the velocity derived from it. dt must be positive; see ClampDt.
func PositionDelta(x, v, acc dynamo.Vec2, dt float64) (dynamo.Vec2, dynamo.Vec2) {
	prev := x
	halfDt2 := 0.5 * dt * dt

	next := dynamo.Vec2{
		X: x.X + v.X*dt + acc.X*halfDt2,
		Y: x.Y + v.Y*dt + acc.Y*halfDt2,
	}

	vel := dynamo.Vec2{
		X: (next.X - prev.X) / dt,
		Y: (next.Y - prev.Y) / dt,
	}
	return next, vel
}
