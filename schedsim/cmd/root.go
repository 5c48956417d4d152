// Package cmd provides the command-line interface for schedsim.
package cmd

import (
	"log"
	"os"

	"github.com/sarchlab/schedsim/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	configFile string
	verbose    bool
	cfg        *config.Config
)

// newRootCmd builds the base command and registers the subcommands. Each call
// returns a fresh command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schedsim",
		Short: "schedsim simulates CPU scheduling.",
		Long: `schedsim simulates how a single CPU schedules processes under ` +
			`First-Come First-Served or Round Robin, and reports the ` +
			`turnaround, waiting and response time of each process.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.Load(configFile)
			if err != nil {
				return err
			}

			cfg = c

			return bindFlags(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"configuration file (default: ./schedsim.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log every simulation event to stderr")

	rootCmd.AddCommand(newRunCmd(), newGenerateCmd(), newServeCmd())

	return rootCmd
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"algorithm":         config.KeyAlgorithm,
	"quantum":           config.KeyTimeQuantum,
	"switch-cost":       config.KeySwitchCost,
	"switch-accounting": config.KeySwitchAccounting,
	"max-processes":     config.KeyMaxProcesses,
	"port":              config.KeyMonitorPort,
	"output":            config.KeyRecordingOutput,
	"record":            config.KeyRecordingEnabled,
}

func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}

		if err := cfg.BindFlag(key, flag); err != nil {
			return err
		}
	}

	return nil
}

func eventLogger() *log.Logger {
	if !verbose {
		return nil
	}

	return log.New(os.Stderr, "", 0)
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
