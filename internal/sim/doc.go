// Package sim drives a body catalog through fixed time steps.
//
// A [Simulator] owns its catalog for the whole run. Each [Simulator.Step]:
//
//  1. kicks velocities from gravity at the current positions,
//  2. drifts positions with the new velocities,
//  3. advances the clock by exactly one increment,
//  4. optionally checks that every value is still finite,
//  5. scans for collisions over the next increment and notifies metrics/observers.
//
// [Simulator.Integrate] repeats steps while the clock is strictly below the
// target, so it may overshoot by less than one increment; it never sub-steps.
//
// # Thread Safety
//
// A step is a critical section. [Simulator.Positions] and the other readers
// take the same lock, so a display loop may poll them from another goroutine
// without racing a step. Observers and metrics run inside the lock and must not
// call back into the Simulator.
package sim
