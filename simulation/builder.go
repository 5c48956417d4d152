package simulation

import (
	"log"

	"github.com/rs/xid"
	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/datarecording"
	"github.com/sarchlab/schedsim/metrics"
	"github.com/sarchlab/schedsim/monitoring"
	"github.com/sarchlab/schedsim/sim"
	"github.com/sarchlab/schedsim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
	policy         cpu.Policy
	accounting     metrics.Accounting
	logger         *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:  true,
		policy:     cpu.FCFS(),
		accounting: metrics.DefaultAccounting(),
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithRecording lets the simulation write its results and traces into a
// database.
func (b Builder) WithRecording() Builder {
	b.recordingOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
// It turns recording on.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	b.recordingOn = true

	return b
}

// WithPolicy sets the scheduling policy.
func (b Builder) WithPolicy(policy cpu.Policy) Builder {
	b.policy = policy
	return b
}

// WithAccounting sets how context switches are charged.
func (b Builder) WithAccounting(acct metrics.Accounting) Builder {
	b.accounting = acct
	return b
}

// WithLogger logs every event to the logger.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if err := b.policy.Validate(); err != nil {
		panic(err)
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:         xid.New().String(),
		policy:     b.policy,
		accounting: b.accounting,
	}

	s.engine = sim.NewSerialEngine()
	if b.logger != nil {
		s.engine.AcceptHook(sim.NewEventLogger(b.logger))
	}

	s.dispatcher = cpu.MakeBuilder().
		WithEngine(s.engine).
		WithPolicy(b.policy).
		Build("CPU")

	s.sliceCollector = tracing.NewSliceCollector(
		s.engine, tracing.KindIs(cpu.SliceTaskKind))
	tracing.CollectTrace(s.dispatcher, s.sliceCollector)

	s.busyTimeTracer = tracing.NewBusyTimeTracer(
		s.engine, tracing.KindIs(cpu.SliceTaskKind))
	tracing.CollectTrace(s.dispatcher, s.busyTimeTracer)

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "schedsim_" + s.id
		}

		s.outputPath = outputPath
		s.dataRecorder = datarecording.New(outputPath)
		s.visTracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
		tracing.CollectTrace(s.dispatcher, s.visTracer)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().
			WithAccounting(b.accounting)
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterDispatcher(s.dispatcher)
		s.monitorPort = s.monitor.StartServer()
	}

	return s
}
