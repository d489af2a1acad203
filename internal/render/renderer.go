// Package render converts status snapshots into a human-readable terminal
// report. Rendering is a pure transform: identical snapshots produce
// byte-identical text, and nothing here performs I/O.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/revwatch/revwatch/internal/collector"
)

// DefaultBarWidth is the progress bar width when none is configured.
const DefaultBarWidth = 20

// Renderer renders snapshots to text.
type Renderer struct {
	barWidth int
	color    bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBarWidth sets the progress bar character width.
func WithBarWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.barWidth = width
		}
	}
}

// WithColor toggles ANSI styling. Plain output is used for non-TTY
// destinations and in tests.
func WithColor(enabled bool) Option {
	return func(r *Renderer) { r.color = enabled }
}

// New creates a Renderer. Color is on by default; callers detecting a
// non-TTY destination pass WithColor(false).
func New(opts ...Option) *Renderer {
	r := &Renderer{barWidth: DefaultBarWidth, color: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the full report: independent sections joined by blank
// lines.
func (r *Renderer) Render(snap collector.Snapshot) string {
	sections := []string{
		r.renderHeader(snap),
		r.renderSystem(snap.System),
		r.renderTools(snap.Tools),
		r.renderMemory(snap.Memory),
		r.renderProgress(snap.Progress),
		r.renderActivity(snap.RecentActivity),
		r.renderAlerts(snap.Alerts),
	}
	return strings.Join(sections, "\n\n") + "\n"
}

// paint applies a foreground color when styling is enabled.
func (r *Renderer) paint(color lipgloss.Color, s string) string {
	if !r.color {
		return s
	}
	return lipgloss.NewStyle().Foreground(color).Render(s)
}

// bold applies bold styling when enabled.
func (r *Renderer) bold(s string) string {
	if !r.color {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Render(s)
}

// bar renders a banded progress bar for a 0-100 percentage.
func (r *Renderer) bar(percent int) string {
	return r.paint(BarColor(clampPercent(percent)), buildBar(percent, r.barWidth))
}

func (r *Renderer) renderHeader(snap collector.Snapshot) string {
	title := r.bold("revwatch — review pipeline status")

	var badge string
	if snap.System.Health == collector.HealthHealthy {
		badge = r.paint(ColorSuccess, "["+SymbolOK+" healthy]")
	} else {
		badge = r.paint(ColorWarning, "["+SymbolDegraded+" degraded]")
	}

	stamp := r.paint(ColorMuted, snap.Timestamp.Format("2006-01-02 15:04:05"))
	return fmt.Sprintf("%s %s\n%s", title, badge, stamp)
}

func (r *Renderer) renderSystem(sys collector.SystemStatus) string {
	var b strings.Builder
	b.WriteString(r.bold("System") + "\n")
	fmt.Fprintf(&b, "  uptime      %s\n", FormatDuration(sys.Uptime))
	fmt.Fprintf(&b, "  version     %s\n", orDash(sys.Version))
	fmt.Fprintf(&b, "  environment %s\n", orDash(sys.Environment))

	if sys.StoreConnected {
		fmt.Fprintf(&b, "  store       %s connected (%s, %s)",
			r.paint(ColorSuccess, SymbolOK), FormatBytes(sys.StoreSizeBytes), sys.StorePath)
	} else {
		fmt.Fprintf(&b, "  store       %s not found (%s)",
			r.paint(ColorError, SymbolFail), sys.StorePath)
	}
	return b.String()
}

func (r *Renderer) renderTools(tools []collector.ToolStatus) string {
	var b strings.Builder
	b.WriteString(r.bold("Tools"))

	if len(tools) == 0 {
		b.WriteString("\n  " + r.paint(ColorMuted, "no tools in catalogue"))
		return b.String()
	}

	byCategory := make(map[collector.ToolCategory][]collector.ToolStatus)
	for _, t := range tools {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	for _, cat := range collector.CategoryOrder {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		b.WriteString("\n  " + r.paint(ColorSecondary, string(cat)))
		for _, t := range group {
			icon := r.paint(toolColor(t.State), toolSymbol(t.State))
			fmt.Fprintf(&b, "\n    %s %-18s %s", icon, t.Name, t.State)
			if t.Error != "" {
				b.WriteString("\n      " + r.paint(ColorMuted, t.Error))
			}
			for _, dep := range t.Dependencies {
				if dep.Available {
					continue
				}
				fmt.Fprintf(&b, "\n      %s missing: %s", r.paint(ColorError, SymbolFail), dep.Name)
			}
		}
	}

	return b.String()
}

func (r *Renderer) renderMemory(mem collector.MemoryStatus) string {
	var b strings.Builder
	b.WriteString(r.bold("Memory") + "\n")
	fmt.Fprintf(&b, "  short-term %-4d working %-4d long-term %-4d\n",
		mem.ShortTerm, mem.Working, mem.LongTerm)
	fmt.Fprintf(&b, "  episodic   %-4d checkpoints %-4d citations %-4d\n",
		mem.Episodic, mem.Checkpoints, mem.Citations)
	fmt.Fprintf(&b, "  tasks: %d pending, %d in progress, %d completed, %d blocked",
		mem.Tasks.Pending, mem.Tasks.InProgress, mem.Tasks.Completed, mem.Tasks.Blocked)
	return b.String()
}

func (r *Renderer) renderProgress(p collector.ProgressStatus) string {
	var b strings.Builder
	b.WriteString(r.bold("Progress") + "\n")
	fmt.Fprintf(&b, "  overall %s %3d%%", r.bar(p.OverallPercent), p.OverallPercent)

	if p.CurrentPhase != "" {
		fmt.Fprintf(&b, "\n  current phase: %s", p.CurrentPhase)
	}
	if p.CurrentTask != "" {
		fmt.Fprintf(&b, "\n  current task:  %s", p.CurrentTask)
	}

	for _, ph := range p.Phases {
		fmt.Fprintf(&b, "\n  %-14s %s %3d%% (%d/%d) %s",
			ph.Name, r.bar(ph.Percent), ph.Percent,
			ph.CompletedTasks, ph.TotalTasks, string(ph.Status))
		if ph.QualityGatePassed != nil && *ph.QualityGatePassed {
			b.WriteString(" " + r.paint(ColorSuccess, "gate "+SymbolOK))
		}
	}

	if len(p.Phases) == 0 {
		b.WriteString("\n  " + r.paint(ColorMuted, "no phases recorded"))
	}

	return b.String()
}

func (r *Renderer) renderActivity(entries []collector.ActivityEntry) string {
	var b strings.Builder
	b.WriteString(r.bold("Recent Activity"))

	if len(entries) == 0 {
		b.WriteString("\n  " + r.paint(ColorMuted, "no activity yet"))
		return b.String()
	}

	for _, e := range entries {
		marker := r.paint(activityColor(e.Type), fmt.Sprintf("%-7s", e.Type))
		fmt.Fprintf(&b, "\n  %s %s [%s] %s", shortTime(e.Timestamp), marker, e.Category, e.Message)
	}
	return b.String()
}

func (r *Renderer) renderAlerts(alerts []collector.Alert) string {
	var b strings.Builder
	b.WriteString(r.bold("Alerts"))

	if len(alerts) == 0 {
		b.WriteString("\n  " + r.paint(ColorSuccess, SymbolOK+" all clear — no active alerts"))
		return b.String()
	}

	for _, a := range alerts {
		marker := r.paint(alertColor(a.Severity), fmt.Sprintf("%s %-8s", SymbolAlert, a.Severity))
		fmt.Fprintf(&b, "\n  %s %s [%s] %s (%s)", shortTime(a.Timestamp), marker, a.Category, a.Message, a.ID)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
