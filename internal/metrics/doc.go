// Package metrics provides per-frame observables of a particle population.
// Every type here satisfies sim.Metric and can be registered with
// World.AddMetric.
package metrics
