// Package metrics derives per-process and aggregate performance figures from
// a finished run.
package metrics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/sim"
)

// ErrNoData is returned when there are no processes to average over.
var ErrNoData = errors.New("no data")

// SwitchMode selects how the context switch overhead is counted.
type SwitchMode int

// The switch overhead modes.
const (
	// ChargePerProcess charges one switch per process.
	ChargePerProcess SwitchMode = iota

	// ChargePerSwitch charges every context switch the dispatcher
	// performed. Giving the CPU back to the process whose slice just expired
	// is not a switch.
	ChargePerSwitch
)

// DefaultSwitchCost is the time charged for one context switch.
const DefaultSwitchCost = 2

// ParseSwitchMode converts "per_process" or "per_switch" into a mode.
func ParseSwitchMode(s string) (SwitchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per_process", "process":
		return ChargePerProcess, nil
	case "per_switch", "switch", "per_dispatch", "dispatch":
		return ChargePerSwitch, nil
	default:
		return 0, fmt.Errorf("unknown switch accounting mode %q", s)
	}
}

func (m SwitchMode) String() string {
	if m == ChargePerSwitch {
		return "per_switch"
	}

	return "per_process"
}

// Accounting defines the context switch overhead used by CPU efficiency.
type Accounting struct {
	SwitchCost sim.VTime
	Mode       SwitchMode
}

// DefaultAccounting charges DefaultSwitchCost once per process.
func DefaultAccounting() Accounting {
	return Accounting{
		SwitchCost: DefaultSwitchCost,
		Mode:       ChargePerProcess,
	}
}

// ProcessMetrics holds the figures of one process.
type ProcessMetrics struct {
	ID             int       `json:"id"`
	ArrivalTime    sim.VTime `json:"arrival_time"`
	BurstTime      sim.VTime `json:"burst_time"`
	StartTime      sim.VTime `json:"start_time"`
	EndTime        sim.VTime `json:"end_time"`
	TurnaroundTime sim.VTime `json:"turnaround_time"`
	WaitingTime    sim.VTime `json:"waiting_time"`
	ResponseTime   sim.VTime `json:"response_time"`
	Dispatches     int       `json:"dispatches"`
}

// Summary holds the figures of a run.
type Summary struct {
	Processes          []ProcessMetrics `json:"processes"`
	AverageTurnaround  float64          `json:"avg_turnaround"`
	AverageWaiting     float64          `json:"avg_waiting"`
	AverageResponse    float64          `json:"avg_response"`
	CPUEfficiency      float64          `json:"cpu_efficiency_percent"`
	TotalTime          sim.VTime        `json:"total_time"`
	TotalExecutionTime sim.VTime        `json:"total_execution_time"`
	SwitchOverhead     sim.VTime        `json:"switch_overhead"`
	ContextSwitches    int              `json:"context_switches"`
}

// ForProcess computes the figures of one completed process.
func ForProcess(p cpu.Process) ProcessMetrics {
	turnaround := p.EndTime - p.ArrivalTime

	return ProcessMetrics{
		ID:             p.ID,
		ArrivalTime:    p.ArrivalTime,
		BurstTime:      p.BurstTime,
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		TurnaroundTime: turnaround,
		WaitingTime:    turnaround - p.BurstTime,
		ResponseTime:   p.StartTime - p.ArrivalTime,
		Dispatches:     p.Dispatches,
	}
}

// Calculate computes the figures of a finished run. It does not modify the
// result.
func Calculate(result *cpu.Result, acct Accounting) (Summary, error) {
	if result == nil || len(result.Processes) == 0 {
		return Summary{}, ErrNoData
	}

	s := Summary{
		Processes:          make([]ProcessMetrics, 0, len(result.Processes)),
		TotalExecutionTime: result.TotalExecutionTime,
		ContextSwitches:    result.ContextSwitches,
	}

	var sumTurnaround, sumWaiting, sumResponse sim.VTime
	for _, p := range result.Processes {
		m := ForProcess(p)
		s.Processes = append(s.Processes, m)

		sumTurnaround += m.TurnaroundTime
		sumWaiting += m.WaitingTime
		sumResponse += m.ResponseTime

		if p.EndTime > s.TotalTime {
			s.TotalTime = p.EndTime
		}
	}

	n := float64(len(result.Processes))
	s.AverageTurnaround = float64(sumTurnaround) / n
	s.AverageWaiting = float64(sumWaiting) / n
	s.AverageResponse = float64(sumResponse) / n

	s.SwitchOverhead = switchOverhead(result, acct)
	s.CPUEfficiency = efficiency(s.TotalExecutionTime, s.SwitchOverhead)

	return s, nil
}

func switchOverhead(result *cpu.Result, acct Accounting) sim.VTime {
	switch acct.Mode {
	case ChargePerSwitch:
		return acct.SwitchCost * sim.VTime(result.ContextSwitches)
	default:
		return acct.SwitchCost * sim.VTime(len(result.Processes))
	}
}

func efficiency(exec, overhead sim.VTime) float64 {
	if exec+overhead == 0 {
		return 0
	}

	return float64(exec) / float64(exec+overhead) * 100
}
