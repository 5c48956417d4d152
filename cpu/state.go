package cpu

import "github.com/sarchlab/schedsim/sim"

// State is a snapshot of a dispatcher. Process IDs are used in place of
// registry indices.
type State struct {
	Name               string
	Policy             string
	Running            int
	ReadyQueue         []int
	TotalExecutionTime sim.VTime
	ContextSwitches    int
	NumFinished        int
	NumProcesses       int
}

// State returns a snapshot of the dispatcher. Running is -1 when the CPU is
// idle.
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := State{
		Name:               d.Name(),
		Policy:             d.policy.String(),
		Running:            noProcess,
		ReadyQueue:         []int{},
		TotalExecutionTime: d.totalExecutionTime,
		ContextSwitches:    d.contextSwitches,
		NumFinished:        d.numFinished,
	}

	if d.registry == nil {
		return s
	}

	s.NumProcesses = d.registry.Len()

	if d.running != noProcess {
		s.Running = d.registry.At(d.running).ID
	}

	for _, i := range d.ready.Snapshot() {
		s.ReadyQueue = append(s.ReadyQueue, d.registry.At(i).ID)
	}

	return s
}
