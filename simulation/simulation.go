// Package simulation wires the engine, the dispatcher, the tracers, the data
// recorder and the monitor of one simulation run.
package simulation

import (
	"log"

	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/datarecording"
	"github.com/sarchlab/schedsim/metrics"
	"github.com/sarchlab/schedsim/monitoring"
	"github.com/sarchlab/schedsim/sim"
	"github.com/sarchlab/schedsim/tracing"
)

// Table names written by the data recorder.
const (
	ProcessTableName = "processes"
	SummaryTableName = "summary"
)

// A Simulation runs one workload under one policy.
type Simulation struct {
	id         string
	policy     cpu.Policy
	accounting metrics.Accounting

	engine     *sim.SerialEngine
	dispatcher *cpu.Dispatcher

	sliceCollector *tracing.SliceCollector
	busyTimeTracer *tracing.BusyTimeTracer
	visTracer      *tracing.DBTracer

	dataRecorder datarecording.DataRecorder
	outputPath   string

	monitor     *monitoring.Monitor
	monitorPort int

	ran bool
}

// Outcome is what a simulation produces.
type Outcome struct {
	ID       string
	Result   *cpu.Result
	Summary  metrics.Summary
	BusyTime sim.VTime
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDispatcher returns the dispatcher of the simulation.
func (s *Simulation) GetDispatcher() *cpu.Dispatcher {
	return s.dispatcher
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// when recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// OutputPath returns the database path without the .sqlite3 extension.
func (s *Simulation) OutputPath() string {
	return s.outputPath
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorPort returns the port of the monitoring server.
func (s *Simulation) MonitorPort() int {
	return s.monitorPort
}

// Run simulates the processes. A simulation can only run once.
func (s *Simulation) Run(processes []cpu.Process) (*Outcome, error) {
	if s.ran {
		log.Panicf("simulation %s already ran", s.id)
	}
	s.ran = true

	if err := s.dispatcher.Load(processes); err != nil {
		return nil, err
	}

	var bar *monitoring.ProgressBar
	if s.monitor != nil {
		bar = s.monitor.CreateProgressBar(
			"Simulation "+s.policy.String(), uint64(len(processes)))
		hook := monitoring.NewProgressHook(bar)
		s.engine.AcceptHook(hook)
		s.dispatcher.AcceptHook(hook)
	}

	if err := s.engine.Run(); err != nil {
		return nil, err
	}

	s.engine.Finished()
	s.dispatcher.MustBeFinished()

	now := s.engine.CurrentTime()
	s.busyTimeTracer.TerminateAllTasks(now)

	result := s.dispatcher.Result(s.sliceCollector.Tasks())

	summary, err := metrics.Calculate(result, s.accounting)
	if err != nil {
		return nil, err
	}

	if s.dataRecorder != nil {
		s.record(result, summary)
	}

	if bar != nil {
		s.monitor.CompleteProgressBar(bar)
	}

	return &Outcome{
		ID:       s.id,
		Result:   result,
		Summary:  summary,
		BusyTime: s.busyTimeTracer.BusyTime(),
	}, nil
}

// Terminate flushes and closes the outputs of the simulation.
func (s *Simulation) Terminate() {
	if s.visTracer != nil {
		s.visTracer.Terminate()
	}

	if s.dataRecorder != nil {
		if err := s.dataRecorder.Close(); err != nil {
			log.Printf("closing data recorder: %v", err)
		}
	}
}
