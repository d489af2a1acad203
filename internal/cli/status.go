package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var refreshFlag bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a status report for the review pipeline",
	Long: `Collect a status snapshot and print the rendered report.

With --refresh the report is re-collected and re-printed on the configured
interval until interrupted.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&refreshFlag, "refresh", false, "re-render on the configured interval until interrupted")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dash := newDashboard(cfg)
	defer dash.Close()

	if err := dash.Initialize(sessionID(cfg)); err != nil {
		return err
	}

	if !refreshFlag {
		return dash.Display()
	}

	if err := dash.StartAutoRefresh(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	signal.Stop(sig)

	dash.StopAutoRefresh()
	return nil
}
