package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/sarchlab/schedsim/monitoring"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation web page and API.",
		Long: "`serve` starts a web server. POST /api/simulate runs a " +
			"simulation and GET /api/generate creates a workload.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acct, err := cfg.Accounting()
			if err != nil {
				return err
			}

			m := monitoring.NewMonitor().
				WithPortNumber(cfg.MonitorPort()).
				WithWorkloadReader(cfg.WorkloadReader()).
				WithAccounting(acct)
			port := m.StartServer()

			open, _ := cmd.Flags().GetBool("open")
			if open {
				url := fmt.Sprintf("http://localhost:%d", port)
				if err := browser.OpenURL(url); err != nil {
					log.Printf("cannot open %s: %v", url, err)
				}
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			return nil
		},
	}

	serveCmd.Flags().IntP("port", "p", 0, "port to listen on")
	serveCmd.Flags().Bool("open", false, "open the page in a browser")
	serveCmd.Flags().Int("switch-cost", 2, "time charged per context switch")
	serveCmd.Flags().String("switch-accounting", "per_process",
		"charge switches per_process or per_switch")
	serveCmd.Flags().Int("max-processes", 50,
		"largest accepted workload, 0 for no limit")

	return serveCmd
}
