// Package report prints the outcome of a run as text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/metrics"
)

// Write prints the title, the Gantt chart, the summary lines and the
// process table.
func Write(
	w io.Writer,
	policy cpu.Policy,
	slices []cpu.Slice,
	s metrics.Summary,
) {
	Title(w, policy.String())
	Gantt(w, slices)
	Summary(w, s)
	Table(w, s)
}

// Title prints a framed title.
func Title(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

// Summary prints the aggregate figures.
func Summary(w io.Writer, s metrics.Summary) {
	_, _ = fmt.Fprintf(w, "Total Time required is %d time units\n", s.TotalTime)
	_, _ = fmt.Fprintf(w, "Average Turn Around Time: %s time units\n",
		number(s.AverageTurnaround))
	_, _ = fmt.Fprintf(w, "Average Waiting Time: %s time units\n",
		number(s.AverageWaiting))
	_, _ = fmt.Fprintf(w, "Average Response Time: %s time units\n",
		number(s.AverageResponse))
	_, _ = fmt.Fprintf(w, "CPU Efficiency: %s%%\n\n", number(s.CPUEfficiency))
}

// ProcessDetails prints one block per process.
func ProcessDetails(w io.Writer, s metrics.Summary) {
	for _, p := range s.Processes {
		_, _ = fmt.Fprintf(w, "Process %d:\n", p.ID)
		_, _ = fmt.Fprintf(w, "Service time = %d time units\n", p.BurstTime)
		_, _ = fmt.Fprintf(w, "Turnaround time = %d time units\n",
			p.TurnaroundTime)
		_, _ = fmt.Fprintf(w, "Waiting time = %d time units\n", p.WaitingTime)
		_, _ = fmt.Fprintf(w, "Response time = %d time units\n\n",
			p.ResponseTime)
	}
}

// Table prints the per-process figures with the averages in the footer.
func Table(w io.Writer, s metrics.Summary) {
	rows := make([][]string, 0, len(s.Processes))
	for _, p := range s.Processes {
		rows = append(rows, []string{
			fmt.Sprint(p.ID),
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.BurstTime),
			fmt.Sprint(p.StartTime),
			fmt.Sprint(p.EndTime),
			fmt.Sprint(p.TurnaroundTime),
			fmt.Sprint(p.WaitingTime),
			fmt.Sprint(p.ResponseTime),
		})
	}

	_, _ = fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"ID", "Arrival", "Burst", "Start", "Exit",
		"Turnaround", "Wait", "Response",
	})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", s.AverageTurnaround),
		fmt.Sprintf("Average\n%.2f", s.AverageWaiting),
		fmt.Sprintf("Average\n%.2f", s.AverageResponse)})
	table.Render()
}

// Gantt prints the slices in order. Idle gaps are shown as "-".
func Gantt(w io.Writer, slices []cpu.Slice) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	if len(slices) == 0 {
		_, _ = fmt.Fprintf(w, "(empty)\n\n")
		return
	}

	var labels, times strings.Builder

	labels.WriteString("|")
	times.WriteString(fmt.Sprint(slices[0].Start))

	last := slices[0].Start
	for _, s := range slices {
		if s.Start > last {
			writeCell(&labels, &times, "-", s.Start)
		}

		writeCell(&labels, &times, "P"+strconv.Itoa(s.PID), s.End)
		last = s.End
	}

	_, _ = fmt.Fprintln(w, labels.String())
	_, _ = fmt.Fprintln(w, times.String())
	_, _ = fmt.Fprintln(w)
}

const cellWidth = 8

func writeCell(labels, times *strings.Builder, label string, end any) {
	cell := label
	if len(label) < cellWidth {
		pad := (cellWidth - len(label)) / 2
		cell = strings.Repeat(" ", pad) + label +
			strings.Repeat(" ", cellWidth-len(label)-pad)
	}

	labels.WriteString(cell)
	labels.WriteString("|")

	endText := fmt.Sprint(end)
	gap := labels.Len() - times.Len() - len(endText)
	times.WriteString(strings.Repeat(" ", max(gap, 1)))
	times.WriteString(endText)
}

func number(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}
