// Package viz is the live tuning terminal UI.
//
// [Model] steps a closed loop in real time and lets the user retune the PID
// while the plant responds:
//
//	Tab    - next parameter
//	Up/K   - parameter +5%
//	Down/J - parameter -5%
//	r      - reset the PID and filters, keep the plant moving
//	R      - restart the run from the initial state
//	Space  - pause/resume
//	t      - cycle color themes
//	?      - help
//
// [Picker] is a small menu that chooses a plant and preset and then hands
// over to a [Model].
package viz
