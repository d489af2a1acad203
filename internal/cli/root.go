package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/revwatch/revwatch/internal/config"
	"github.com/revwatch/revwatch/internal/dashboard"
	"github.com/revwatch/revwatch/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Persistent flags
var (
	configFlag  string
	sessionFlag string
	noColorFlag bool
)

// rootCmd is the base command for revwatch.
var rootCmd = &cobra.Command{
	Use:   "revwatch",
	Short: "Status dashboard for the review pipeline",
	Long: `revwatch observes a running review pipeline and reports on it.

It reads the pipeline's session store, probes external tool dependencies,
and renders a status report: system health, tool availability, memory
tiers, phase progress, recent activity, and unacknowledged alerts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&sessionFlag, "session", "", "session id (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable color output")
}

// loadConfig resolves the effective configuration.
func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(configFlag)
}

// sessionID resolves the session to bind, flag over config.
func sessionID(cfg *config.Config) string {
	if sessionFlag != "" {
		return sessionFlag
	}
	return cfg.Session.Default
}

// colorEnabled decides whether the report uses ANSI styling: the flag and
// config override, otherwise a TTY check.
func colorEnabled(cfg *config.Config) bool {
	if noColorFlag || cfg.Output.Color == "never" {
		return false
	}
	if cfg.Output.Color == "always" {
		return true
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// barWidth caps the configured bar width on narrow terminals. Width is
// read once here so a report renders the same on every refresh.
func barWidth(cfg *config.Config) int {
	w := cfg.Output.BarWidth
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		// leave room for the phase label, percent, and task counts
		if room := tw - 40; room > 0 && w > room {
			w = room
		}
	}
	return w
}

// newDashboard builds a dashboard from the resolved config.
func newDashboard(cfg *config.Config) *dashboard.Dashboard {
	// lipgloss renders through this profile; force plain output when
	// color is off so reports stay byte-stable in pipes.
	if !colorEnabled(cfg) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	renderer := render.New(
		render.WithBarWidth(barWidth(cfg)),
		render.WithColor(colorEnabled(cfg)),
	)

	return dashboard.New(dashboard.Options{
		Config:   cfg,
		Renderer: renderer,
		Version:  version,
	})
}
