package cpu

import (
	"github.com/sarchlab/schedsim/sim"
	"github.com/sarchlab/schedsim/tracing"
)

// Slice is one contiguous interval in which a process holds the CPU.
type Slice struct {
	PID   int       `json:"pid"`
	Start sim.VTime `json:"start"`
	End   sim.VTime `json:"end"`
}

// Result is the outcome of a run.
type Result struct {
	Policy             Policy
	Processes          []Process
	TotalExecutionTime sim.VTime
	ContextSwitches    int
	Slices             []Slice
}

// NumDispatches returns the number of dispatches, counted from the records.
func (r *Result) NumDispatches() int {
	n := 0
	for _, p := range r.Processes {
		n += p.Dispatches
	}

	return n
}

// An Option configures Simulate.
type Option func(*simulateOptions)

type simulateOptions struct {
	engine          sim.Engine
	dispatcherHooks []sim.Hook
	engineHooks     []sim.Hook
	name            string
}

// WithEngine runs the simulation on the given engine. The engine must not
// have pending events.
func WithEngine(engine sim.Engine) Option {
	return func(o *simulateOptions) {
		o.engine = engine
	}
}

// WithDispatcherHook attaches a hook to the dispatcher.
func WithDispatcherHook(hook sim.Hook) Option {
	return func(o *simulateOptions) {
		o.dispatcherHooks = append(o.dispatcherHooks, hook)
	}
}

// WithEngineHook attaches a hook to the engine.
func WithEngineHook(hook sim.Hook) Option {
	return func(o *simulateOptions) {
		o.engineHooks = append(o.engineHooks, hook)
	}
}

// WithDispatcherName names the dispatcher. The default name is "CPU".
func WithDispatcherName(name string) Option {
	return func(o *simulateOptions) {
		o.name = name
	}
}

// Simulate runs the processes to completion under the policy. The input
// slice is not modified. Processes in the result keep the input order.
func Simulate(
	processes []Process,
	policy Policy,
	opts ...Option,
) (*Result, error) {
	o := simulateOptions{name: "CPU"}
	for _, opt := range opts {
		opt(&o)
	}

	if err := Validate(processes, policy); err != nil {
		return nil, err
	}

	engine := o.engine
	if engine == nil {
		engine = sim.NewSerialEngine()
	}

	for _, h := range o.engineHooks {
		engine.AcceptHook(h)
	}

	d := MakeBuilder().
		WithEngine(engine).
		WithPolicy(policy).
		Build(o.name)

	collector := tracing.NewSliceCollector(
		engine, tracing.KindIs(SliceTaskKind))
	tracing.CollectTrace(d, collector)

	for _, h := range o.dispatcherHooks {
		d.AcceptHook(h)
	}

	if err := d.Load(processes); err != nil {
		return nil, err
	}

	if err := engine.Run(); err != nil {
		return nil, err
	}

	engine.Finished()
	d.MustBeFinished()

	return d.Result(collector.Tasks()), nil
}

// Result collects the outcome of a finished run. The tasks are the slice
// tasks traced from the dispatcher.
func (d *Dispatcher) Result(tasks []tracing.Task) *Result {
	return &Result{
		Policy:             d.policy,
		Processes:          d.Processes(),
		TotalExecutionTime: d.TotalExecutionTime(),
		ContextSwitches:    d.ContextSwitches(),
		Slices:             SlicesFromTasks(tasks),
	}
}

// SlicesFromTasks converts slice tasks into slices. Tasks of other kinds are
// skipped.
func SlicesFromTasks(tasks []tracing.Task) []Slice {
	slices := make([]Slice, 0, len(tasks))

	for _, t := range tasks {
		if t.Kind != SliceTaskKind {
			continue
		}

		pid, ok := t.Detail.(int)
		if !ok {
			continue
		}

		slices = append(slices, Slice{
			PID:   pid,
			Start: t.StartTime,
			End:   t.EndTime,
		})
	}

	return slices
}
