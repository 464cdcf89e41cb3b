// Package viz renders halo simulations in the terminal.
//
//   - [Heatmap]: shaded density map of a field, coloured with the current theme
//   - [Canvas]: Braille-based pixel canvas used for puncture overlays
//   - [ProfilePlot], [RotationPlot], [MassPlot]: asciigraph line charts
//   - [LiveModel]: Bubble Tea program that steps a simulation and replays it
//
// # Key Bindings
//
//	Space - Pause/Resume stepping
//	R     - Reset to the initial injections
//	F     - Cycle the displayed field (frozen, unfrozen, source)
//	L     - Toggle logarithmic shading
//	T     - Cycle color themes
//	?     - Show help overlay
//	[]    - Time travel through recorded snapshots
package viz
