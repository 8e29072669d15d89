// Package viz renders a running gas in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live arena view with energy plot and speed histogram
//   - [Canvas]: Braille-based pixel canvas with per-cell tint
//   - Preset picker that launches the live view ([RunInteractive])
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	Up/K  - Speed up every particle
//	Down/J- Slow down every particle
//	R     - Rebuild the arena
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// The G key records frames and writes them to idealgas.gif in the current
// directory when recording stops.
package viz
