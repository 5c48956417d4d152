package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/report"
	"github.com/sarchlab/schedsim/simulation"
	"github.com/sarchlab/schedsim/workload"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [workload file]",
		Short: "Simulate a workload.",
		Long: "`run processes.txt` simulates the processes listed in the file, " +
			"one `id arrival burst` per line (or CSV with a .csv extension). " +
			"Use --generate to simulate a random workload instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			processes, err := loadWorkload(cmd, args)
			if err != nil {
				return err
			}

			policy, err := cfg.Policy()
			if err != nil {
				return err
			}

			acct, err := cfg.Accounting()
			if err != nil {
				return err
			}

			builder := simulation.MakeBuilder().
				WithPolicy(policy).
				WithAccounting(acct)

			monitor, _ := cmd.Flags().GetBool("monitor")
			if monitor {
				builder = builder.WithMonitorPort(cfg.MonitorPort())
			} else {
				builder = builder.WithoutMonitoring()
			}

			if cfg.RecordingEnabled() {
				builder = builder.WithRecording()
				if cfg.RecordingOutput() != "" {
					builder = builder.WithOutputFileName(cfg.RecordingOutput())
				}
			}

			if logger := eventLogger(); logger != nil {
				builder = builder.WithLogger(logger)
			}

			s := builder.Build()
			defer s.Terminate()

			outcome, err := s.Run(processes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report.Write(out, policy, outcome.Result.Slices, outcome.Summary)

			details, _ := cmd.Flags().GetBool("details")
			if details {
				report.ProcessDetails(out, outcome.Summary)
			}

			if s.GetDataRecorder() != nil {
				fmt.Fprintf(os.Stderr, "Results recorded in %s.sqlite3\n",
					s.OutputPath())
			}

			return nil
		},
	}

	runCmd.Flags().StringP("algorithm", "a", "fcfs",
		"scheduling algorithm: fcfs or rr")
	runCmd.Flags().IntP("quantum", "q", 2, "Round Robin time quantum")
	runCmd.Flags().Int("switch-cost", 2, "time charged per context switch")
	runCmd.Flags().String("switch-accounting", "per_process",
		"charge switches per_process or per_switch")
	runCmd.Flags().Int("max-processes", workload.DefaultMaxProcesses,
		"largest accepted workload, 0 for no limit")
	runCmd.Flags().Int("generate", 0,
		"simulate this many generated processes instead of reading a file")
	runCmd.Flags().Int64("seed", 1, "seed of the generated workload")
	runCmd.Flags().Bool("details", false, "print the figures of each process")
	runCmd.Flags().Bool("record", false, "record the results into SQLite")
	runCmd.Flags().String("output", "",
		"SQLite file name without extension, implies --record")
	runCmd.Flags().Bool("monitor", false, "start the monitoring server")
	runCmd.Flags().Int("port", 0, "port of the monitoring server")

	return runCmd
}

func loadWorkload(cmd *cobra.Command, args []string) ([]cpu.Process, error) {
	reader := cfg.WorkloadReader()

	n, _ := cmd.Flags().GetInt("generate")
	if n > 0 {
		if len(args) > 0 {
			return nil, fmt.Errorf("cannot use --generate with a workload file")
		}

		if reader.MaxProcesses > 0 && n > reader.MaxProcesses {
			return nil, fmt.Errorf("%w: the limit is %d",
				workload.ErrTooManyProcesses, reader.MaxProcesses)
		}

		seed, _ := cmd.Flags().GetInt64("seed")

		return workload.Generate(n, seed), nil
	}

	if len(args) == 0 {
		return reader.Parse(cmd.InOrStdin())
	}

	return reader.Load(args[0])
}
