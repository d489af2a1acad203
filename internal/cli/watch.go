package cli

import (
	"github.com/revwatch/revwatch/internal/dashboard"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open a live full-screen status view",
	Long: `Run the status dashboard as a full-screen terminal UI.

The view refreshes on the configured interval. Press r to refresh
immediately and q to quit.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dash := newDashboard(cfg)
	defer dash.Close()

	if err := dash.Initialize(sessionID(cfg)); err != nil {
		return err
	}

	return dashboard.RunWatch(dash)
}
