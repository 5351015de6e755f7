// Package ui renders robot status for hexctl's terminal output.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Connected, healthy battery
//	ColorError     (red)    - Errors, low battery
//	ColorWarning   (yellow) - Medium battery
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//	ColorSecondary (blue)   - In-progress indicators
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Spinner Usage
//
//	s := ui.NewSpinner("Connecting to 192.168.1.1:8080")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
//
// For Bubble Tea programs use SpinnerFrames with bubbles/spinner.
package ui
