package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓"
	SymbolFail     = "✗"
	SymbolPending  = "○"
	SymbolProgress = "◐"
	SymbolComplete = "●"
)

// Battery glyphs, one per level.
const (
	SymbolBatteryFull   = "▰▰▰"
	SymbolBatteryMedium = "▰▰▱"
	SymbolBatteryLow    = "▰▱▱"
	SymbolBatteryNone   = "▱▱▱"
)
