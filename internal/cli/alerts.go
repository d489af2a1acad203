package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/revwatch/revwatch/internal/collector"
	"github.com/revwatch/revwatch/internal/dashboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List unacknowledged alerts",
	RunE:  runAlerts,
}

var alertsAckCmd = &cobra.Command{
	Use:   "ack [alert-id]",
	Short: "Acknowledge an alert",
	Long: `Acknowledge an alert so it no longer appears in reports.

With an alert id the alert is acknowledged directly. Without one, an
interactive picker lists the active alerts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAlertsAck,
}

func init() {
	alertsCmd.AddCommand(alertsAckCmd)
	rootCmd.AddCommand(alertsCmd)
}

// openAlerts binds a dashboard and collects once so the session's alert
// state is populated. Caller must Close the dashboard.
func openAlerts() (*dashboard.Dashboard, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dash := newDashboard(cfg)
	if err := dash.Initialize(sessionID(cfg)); err != nil {
		dash.Close()
		return nil, err
	}
	if _, err := dash.Status(); err != nil {
		dash.Close()
		return nil, err
	}
	return dash, nil
}

func runAlerts(cmd *cobra.Command, args []string) error {
	dash, err := openAlerts()
	if err != nil {
		return err
	}
	defer dash.Close()

	alerts := dash.ActiveAlerts()
	if len(alerts) == 0 {
		fmt.Println("✓ all clear — no active alerts")
		return nil
	}

	for _, a := range alerts {
		fmt.Println(formatAlert(a))
	}
	return nil
}

func runAlertsAck(cmd *cobra.Command, args []string) error {
	dash, err := openAlerts()
	if err != nil {
		return err
	}
	defer dash.Close()

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		id, err = pickAlert(dash.ActiveAlerts())
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}
	}

	if !dash.AcknowledgeAlert(id) {
		return fmt.Errorf("no active alert with id %q", id)
	}
	fmt.Printf("acknowledged %s\n", id)
	return nil
}

// pickAlert shows an interactive alert picker. Returns "" when there is
// nothing to acknowledge or the user cancels.
func pickAlert(alerts []collector.Alert) (string, error) {
	if len(alerts) == 0 {
		fmt.Println("✓ all clear — no active alerts")
		return "", nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no alert id given and stdin is not a terminal")
	}

	options := make([]huh.Option[string], 0, len(alerts))
	for _, a := range alerts {
		options = append(options, huh.NewOption(formatAlert(a), a.ID))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Acknowledge which alert?").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		// User cancelled
		return "", nil
	}
	return selected, nil
}

func formatAlert(a collector.Alert) string {
	return fmt.Sprintf("%s  ⚠ %-8s [%s] %s (%s)",
		a.Timestamp.Format("15:04:05"), a.Severity, a.Category, a.Message, a.ID)
}
