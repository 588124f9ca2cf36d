// Package physics provides the particle model and the force laws applied to
// it each frame:
//
//   - [Particle]: point mass with a per-frame force accumulator
//   - [PointerAttraction]: inverse-square pull toward a held pointer
//   - [Drag], [Gravity]: simple per-frame forces
//   - [Wall]: line segment with crossing test and restitution bounce
//
// # Frame protocol
//
// For every particle, once per frame and in this order:
//
//	p.AddForce(...)        // any number of times
//	p.UpdatePosition(dt)
//	physics.Collide(...)   // optional
//	p.ClearForce()
//
// Particles never interact with each other, so different particles may be
// processed concurrently as long as this order holds per particle.
package physics
