// Package viz renders generated fields for terminals and image files.
//
//   - [Heatmap]: lipgloss-coloured block rendering of one time slice
//   - [Quiver]: Braille arrow plot of a vector slice
//   - [SavePNG]: gonum/plot heat map with sensor markers
//   - [SaveGIF]: animated heat map over all time slices
//   - [Viewer]: Bubble Tea program for stepping through a run
//
// # Viewer Key Bindings
//
//	←/→   - Previous/next time slice
//	Space - Play/Pause
//	C     - Cycle component (u, v, speed)
//	M     - Cycle colormap
//	?     - Show help overlay
//	Q     - Quit
package viz
