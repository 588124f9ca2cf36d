// Package analysis inspects recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: frequency content of a metric
//     series sampled at a fixed frame delta
//   - [DensityMap]: ASCII occupancy plot of particle positions
//
// A swarm orbiting a held pointer oscillates through it; the oscillation
// shows up as a peak in the spectrum of the mean speed:
//
//	s := metrics.NewSeries(metrics.NewMeanSpeed(), 0)
//	w.AddMetric(s)
//	w.Run(ctx, sim.RunConfig{Frames: 1024, Dt: dt}, src)
//	f, _ := analysis.DominantFrequency(s.Values(), dt)
package analysis
