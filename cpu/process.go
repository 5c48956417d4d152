// Package cpu simulates a single CPU that runs processes under a First-Come
// First-Served or Round Robin discipline.
package cpu

import "github.com/sarchlab/schedsim/sim"

// Process is the record of one process. ID, ArrivalTime and BurstTime are
// inputs. The other fields are written by the Dispatcher during a run.
type Process struct {
	ID          int       `json:"id"`
	ArrivalTime sim.VTime `json:"arrival_time"`
	BurstTime   sim.VTime `json:"burst_time"`

	StartTime     sim.VTime `json:"start_time"`
	EndTime       sim.VTime `json:"end_time"`
	RemainingTime sim.VTime `json:"remaining_time"`
	Dispatches    int       `json:"dispatches"`

	started  bool
	finished bool
}

// NewProcess creates a process record that has not run yet.
func NewProcess(id int, arrival, burst sim.VTime) Process {
	return Process{
		ID:            id,
		ArrivalTime:   arrival,
		BurstTime:     burst,
		RemainingTime: burst,
	}
}

// Started tells if the process has been dispatched at least once.
func (p Process) Started() bool {
	return p.started
}

// Finished tells if the process has completed.
func (p Process) Finished() bool {
	return p.finished
}

// CPUTime returns the CPU time the process has received so far.
func (p Process) CPUTime() sim.VTime {
	return p.BurstTime - p.RemainingTime
}
