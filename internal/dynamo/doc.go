// Package dynamo provides the core primitives shared by the particle
// simulation:
//
//   - [Vec2]: 2D float vector used for positions, velocities and forces
//   - domain errors such as [ErrInvalidMass] and [ErrParameterBounds]
//   - [ParallelFor]: contiguous range splitting across worker goroutines
//
// # Example
//
//	p := physics.NewDefault()
//	p.AddForce(dynamo.Vec2{X: 100})
//	p.UpdatePosition(1.0 / 60)
//
// # Thread Safety
//
// [Vec2] is a value type and safe to copy between goroutines. [ParallelFor]
// hands each worker a disjoint index range, so callers only need to keep
// work inside fn local to that range.
package dynamo
