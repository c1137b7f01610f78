// Package viz draws particle systems in the terminal.
//
//   - [Model]: the interactive Bubble Tea view, stepping the system every tick
//   - [Canvas]: Braille canvas whose cells are shaded by particle alpha
//   - [AlphaFor]: the speed to opacity mapping shared with SVG export
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Slow motion (time step 10)
//	B     - Draw each particle as a neighbourhood ball
//	P     - Save an SVG snapshot
//	R     - Repopulate
//	Tab   - Select a force, Up/Down to tune it
//	T     - Cycle color themes
//
// Holding the left mouse button pushes particles away from the cursor.
package viz
