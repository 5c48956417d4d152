package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/workload"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random workload.",
		Long: "`generate --count 50` writes 50 processes with sequential IDs, " +
			"non-decreasing arrivals and bursts between 1 and 100.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetInt64("seed")
			output, _ := cmd.Flags().GetString("output")
			asCSV, _ := cmd.Flags().GetBool("csv")

			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			limit := cfg.MaxProcesses()
			if limit > 0 && count > limit {
				return fmt.Errorf("%w: the limit is %d",
					workload.ErrTooManyProcesses, limit)
			}

			processes := workload.Generate(count, seed)

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()

				w = f
			}

			if asCSV {
				return writeCSV(w, processes)
			}

			_, err := io.WriteString(w, workload.Format(processes))

			return err
		},
	}

	generateCmd.Flags().IntP("count", "n", workload.DefaultMaxProcesses,
		"number of processes")
	generateCmd.Flags().Int64("seed", 1, "random seed")
	generateCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	generateCmd.Flags().Bool("csv", false, "write CSV instead of text")
	generateCmd.Flags().Int("max-processes", workload.DefaultMaxProcesses,
		"largest accepted workload, 0 for no limit")

	return generateCmd
}

func writeCSV(w io.Writer, processes []cpu.Process) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "arrival", "burst"}); err != nil {
		return err
	}

	for _, p := range processes {
		err := cw.Write([]string{
			strconv.Itoa(p.ID),
			strconv.FormatInt(int64(p.ArrivalTime), 10),
			strconv.FormatInt(int64(p.BurstTime), 10),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
