package cpu

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/sarchlab/schedsim/sim"
	"github.com/sarchlab/schedsim/tracing"
)

const noProcess = -1

// SliceTaskKind is the tracing task kind of one CPU slice.
const SliceTaskKind = "slice"

// HookPosProcessDone is the hook position that triggers when a process
// completes. The hook item is the completed Process.
var HookPosProcessDone = &sim.HookPos{Name: "ProcessDone"}

// Dispatcher owns the CPU. It moves processes between the ready queue and the
// running slot as arrival, completion and time slice events fire.
//
// Hooks raised while an event is handled are delivered after the dispatcher
// releases its lock, so a hook may read the dispatcher through State and the
// other getters.
type Dispatcher struct {
	*sim.ComponentBase

	mu     sync.Mutex
	engine sim.EventScheduler
	policy Policy

	registry *Registry
	ready    ReadyQueue

	running     int
	lastOnCPU   int
	granted     sim.VTime
	sliceTaskID string

	handling     bool
	pendingHooks []sim.HookCtx

	totalExecutionTime sim.VTime
	contextSwitches    int
	numFinished        int
}

// Load registers the processes and schedules their arrivals. A dispatcher
// can only be loaded once.
func (d *Dispatcher) Load(processes []Process) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.registry != nil {
		log.Panicf("dispatcher %s is already loaded", d.Name())
	}

	if err := Validate(processes, d.policy); err != nil {
		return err
	}

	registry, err := NewRegistry(processes)
	if err != nil {
		return err
	}

	d.registry = registry
	d.scheduleArrivals()

	return nil
}

func (d *Dispatcher) scheduleArrivals() {
	order := make([]int, d.registry.Len())
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		a := d.registry.At(order[i])
		b := d.registry.At(order[j])

		if a.ArrivalTime != b.ArrivalTime {
			return a.ArrivalTime < b.ArrivalTime
		}

		return a.ID < b.ID
	})

	for _, i := range order {
		p := d.registry.At(i)
		d.engine.Schedule(NewArrivalEvent(p.ArrivalTime, d, p.ID))
	}
}

// Handle processes the events of the dispatcher.
func (d *Dispatcher) Handle(e sim.Event) error {
	err := d.handle(e)
	d.deliverPendingHooks()

	return err
}

// InvokeHook triggers the registered hooks. Inside Handle the context is
// queued and delivered once the event is fully handled.
func (d *Dispatcher) InvokeHook(ctx sim.HookCtx) {
	if d.handling {
		d.pendingHooks = append(d.pendingHooks, ctx)
		return
	}

	d.ComponentBase.InvokeHook(ctx)
}

func (d *Dispatcher) deliverPendingHooks() {
	d.mu.Lock()
	pending := d.pendingHooks
	d.pendingHooks = nil
	d.mu.Unlock()

	for _, ctx := range pending {
		d.ComponentBase.InvokeHook(ctx)
	}
}

func (d *Dispatcher) handle(e sim.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handling = true
	defer func() { d.handling = false }()

	switch e := e.(type) {
	case *ArrivalEvent:
		d.handleArrival(e)
	case *CompletionEvent:
		d.handleCompletion(e)
	case *TimeSliceEvent:
		d.handleTimeSlice(e)
	default:
		return fmt.Errorf("dispatcher %s cannot handle event of type %T",
			d.Name(), e)
	}

	return nil
}

func (d *Dispatcher) handleArrival(e *ArrivalEvent) {
	i := d.registry.MustLookup(e.PID)

	if d.running == noProcess {
		d.dispatch(i, e.Time())
		return
	}

	d.ready.Push(i)
}

func (d *Dispatcher) handleCompletion(e *CompletionEvent) {
	if d.policy.IsRoundRobin() {
		log.Panicf("completion event for process %d under %s",
			e.PID, d.policy)
	}

	now := e.Time()
	i := d.runningMustBe(e.PID, now)
	p := d.registry.At(i)

	d.endSlice()
	p.RemainingTime -= d.granted
	d.complete(i, now)

	d.dispatchNext(now)
}

func (d *Dispatcher) handleTimeSlice(e *TimeSliceEvent) {
	if !d.policy.IsRoundRobin() {
		log.Panicf("time slice event for process %d under %s",
			e.PID, d.policy)
	}

	now := e.Time()
	i := d.runningMustBe(e.PID, now)
	p := d.registry.At(i)

	d.endSlice()
	p.RemainingTime -= d.granted

	if p.RemainingTime <= 0 {
		d.complete(i, now)
	} else {
		d.running = noProcess
		d.ready.Push(i)
	}

	d.dispatchNext(now)
}

func (d *Dispatcher) runningMustBe(pid int, now sim.VTime) int {
	i := d.registry.MustLookup(pid)
	if d.running != i {
		log.Panicf("process %d is not running at %d", pid, now)
	}

	return i
}

func (d *Dispatcher) complete(i int, now sim.VTime) {
	p := d.registry.At(i)
	p.EndTime = now
	p.finished = true

	d.totalExecutionTime += p.BurstTime - p.RemainingTime
	d.numFinished++
	d.running = noProcess

	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    HookPosProcessDone,
		Item:   *p,
	})
}

func (d *Dispatcher) dispatchNext(now sim.VTime) {
	i, ok := d.ready.Pop()
	if !ok {
		return
	}

	d.dispatch(i, now)
}

func (d *Dispatcher) dispatch(i int, now sim.VTime) {
	p := d.registry.At(i)
	if p.finished {
		log.Panicf("process %d is dispatched after completion", p.ID)
	}

	if !p.started {
		p.StartTime = now
		p.started = true
	}

	p.Dispatches++
	if d.lastOnCPU != i {
		d.contextSwitches++
	}

	d.running = i
	d.lastOnCPU = i
	d.granted = d.policy.sliceLength(p.RemainingTime)

	d.startSlice(p)

	if d.policy.IsRoundRobin() {
		d.engine.Schedule(NewTimeSliceEvent(now+d.granted, d, p.ID))
		return
	}

	d.engine.Schedule(NewCompletionEvent(now+d.granted, d, p.ID))
}

func (d *Dispatcher) startSlice(p *Process) {
	d.sliceTaskID = sim.GetIDGenerator().Generate()
	tracing.StartTask(
		d.sliceTaskID,
		"",
		d,
		SliceTaskKind,
		fmt.Sprintf("P%d", p.ID),
		p.ID,
	)
}

func (d *Dispatcher) endSlice() {
	tracing.EndTask(d.sliceTaskID, d)
	d.sliceTaskID = ""
}

// MustBeFinished panics if any process has not completed. It should be
// called after the engine runs out of events.
func (d *Dispatcher) MustBeFinished() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running != noProcess || d.ready.Len() > 0 {
		log.Panicf("dispatcher %s still has work when the simulation ends",
			d.Name())
	}

	for i := 0; i < d.registry.Len(); i++ {
		p := d.registry.At(i)
		if !p.finished {
			log.Panicf("process %d did not finish", p.ID)
		}
	}
}

// Policy returns the scheduling policy.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Processes returns a copy of the process records in input order.
func (d *Dispatcher) Processes() []Process {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.registry == nil {
		return nil
	}

	return d.registry.Records()
}

// TotalExecutionTime returns the CPU time consumed by completed processes.
func (d *Dispatcher) TotalExecutionTime() sim.VTime {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.totalExecutionTime
}

// ContextSwitches returns the number of times the CPU was given to a process
// other than the one that last held it.
func (d *Dispatcher) ContextSwitches() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.contextSwitches
}
