package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the Bubble Tea model for the live watch view. It wraps a
// Dashboard and refreshes its report on a tick schedule, skipping ticks
// while a collection is in flight.
type Model struct {
	dash     *Dashboard
	interval time.Duration

	spinner    spinner.Model
	body       string
	lastUpdate time.Time
	collecting bool
	quitting   bool
	width      int
	height     int
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// reportMsg carries a freshly rendered report.
type reportMsg struct {
	body string
	err  error
	time time.Time
}

// NewModel creates a watch model for an initialized dashboard.
func NewModel(dash *Dashboard) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return Model{
		dash:     dash,
		interval: dash.Interval(),
		spinner:  sp,
	}
}

// Init starts the first collection and the tick schedule.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.collectCmd(), m.tickCmd(), m.spinner.Tick)
}

// Update handles keys, ticks, and collection results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if !m.collecting {
				m.collecting = true
				return m, m.collectCmd()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		cmds := []tea.Cmd{m.tickCmd()}
		if !m.collecting {
			m.collecting = true
			cmds = append(cmds, m.collectCmd())
		}
		return m, tea.Batch(cmds...)

	case reportMsg:
		m.collecting = false
		if msg.err == nil {
			m.body = msg.body
			m.lastUpdate = msg.time
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the report plus a status footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var header string
	if m.collecting {
		header = m.spinner.View() + " refreshing"
	} else if !m.lastUpdate.IsZero() {
		header = fmt.Sprintf("updated %s ago", time.Since(m.lastUpdate).Truncate(time.Second))
	} else {
		header = m.spinner.View() + " collecting"
	}

	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
		Render("q quit | r refresh")

	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(header) +
		"\n\n" + m.body + "\n" + footer + "\n"
}

// collectCmd runs one collect+render cycle off the UI loop.
func (m Model) collectCmd() tea.Cmd {
	dash := m.dash
	return func() tea.Msg {
		body, err := dash.Report()
		return reportMsg{body: body, err: err, time: time.Now()}
	}
}

// tickCmd schedules the next refresh tick.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// RunWatch runs the full-screen watch view until the user quits.
func RunWatch(dash *Dashboard) error {
	p := tea.NewProgram(NewModel(dash), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
