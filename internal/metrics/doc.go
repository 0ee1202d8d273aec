// Package metrics provides run observers for the simulator: conservation
// checks, confinement and collision counts. Every type here satisfies
// sim.Metric.
package metrics
