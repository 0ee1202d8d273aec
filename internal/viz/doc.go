// Package viz renders a running simulation in the terminal with Bubble Tea.
//
// The live view reads body positions back from the simulator once per tick
// and draws them on a braille [Canvas]. Static bodies are drawn as circles,
// moving bodies leave a short trail.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Restart from the initial conditions
//	+/-   - Zoom
//	Q     - Quit
package viz
