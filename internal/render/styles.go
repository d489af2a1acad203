package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/revwatch/revwatch/internal/collector"
)

// Color palette using ANSI color codes for terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Unicode symbols for status indicators.
const (
	SymbolOK       = "✓"
	SymbolFail     = "✗"
	SymbolDegraded = "◐"
	SymbolUnknown  = "○"
	SymbolAlert    = "⚠"
)

// toolSymbol returns the icon keyed by tool state.
func toolSymbol(state collector.ToolState) string {
	switch state {
	case collector.ToolAvailable:
		return SymbolOK
	case collector.ToolUnavailable:
		return SymbolFail
	case collector.ToolDegraded:
		return SymbolDegraded
	default:
		return SymbolUnknown
	}
}

// toolColor returns the palette color keyed by tool state.
func toolColor(state collector.ToolState) lipgloss.Color {
	switch state {
	case collector.ToolAvailable:
		return ColorSuccess
	case collector.ToolUnavailable:
		return ColorError
	case collector.ToolDegraded:
		return ColorWarning
	default:
		return ColorMuted
	}
}

// activityColor returns the palette color keyed by activity type.
func activityColor(typ collector.ActivityType) lipgloss.Color {
	switch typ {
	case collector.ActivitySuccess:
		return ColorSuccess
	case collector.ActivityError:
		return ColorError
	case collector.ActivityWarning:
		return ColorWarning
	default:
		return ColorInfo
	}
}

// alertColor returns the palette color keyed by alert severity.
func alertColor(sev collector.AlertSeverity) lipgloss.Color {
	switch sev {
	case collector.AlertCritical, collector.AlertError:
		return ColorError
	case collector.AlertWarning:
		return ColorWarning
	default:
		return ColorInfo
	}
}
