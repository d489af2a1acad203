package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Progress bar block characters.
const (
	barFilled = '█'
	barEmpty  = '░'
)

// BarColor returns the urgency band color for a 0-100 progress value.
// Four bands, highest to lowest: 75+, 50+, 25+, below.
func BarColor(percent int) lipgloss.Color {
	switch {
	case percent >= 75:
		return ColorSuccess
	case percent >= 50:
		return ColorInfo
	case percent >= 25:
		return ColorWarning
	default:
		return ColorError
	}
}

// clampPercent clamps a percentage to the 0-100 range.
func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// buildBar builds the raw bar string for a 0-100 percentage at the given
// character width.
func buildBar(percent, width int) string {
	percent = clampPercent(percent)
	filled := (percent * width) / 100
	var sb strings.Builder
	sb.Grow(width + 2)
	sb.WriteRune('[')
	for i := 0; i < filled; i++ {
		sb.WriteRune(barFilled)
	}
	for i := filled; i < width; i++ {
		sb.WriteRune(barEmpty)
	}
	sb.WriteRune(']')
	return sb.String()
}

// FormatBytes formats a byte count with binary (1024-based) unit steps.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB"}
	if exp >= len(units) {
		exp = len(units) - 1
		div = unit * unit * unit
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}

// FormatDuration formats a duration as its largest applicable unit
// combination (days/hours/minutes/seconds), omitting zero leading units.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// shortTime formats a timestamp for activity and alert lines.
func shortTime(t time.Time) string {
	return t.Format("15:04:05")
}
