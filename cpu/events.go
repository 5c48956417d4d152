package cpu

import "github.com/sarchlab/schedsim/sim"

// ArrivalEvent marks that a process becomes ready.
type ArrivalEvent struct {
	*sim.EventBase
	PID int
}

// NewArrivalEvent creates an ArrivalEvent. Arrivals are primary events, so
// they run before the secondary events of the same time.
func NewArrivalEvent(t sim.VTime, handler sim.Handler, pid int) *ArrivalEvent {
	return &ArrivalEvent{
		EventBase: sim.NewEventBase(t, handler),
		PID:       pid,
	}
}

// CompletionEvent marks that the running process finishes under FCFS.
type CompletionEvent struct {
	*sim.EventBase
	PID int
}

// NewCompletionEvent creates a CompletionEvent.
func NewCompletionEvent(
	t sim.VTime,
	handler sim.Handler,
	pid int,
) *CompletionEvent {
	return &CompletionEvent{
		EventBase: sim.NewSecondaryEventBase(t, handler),
		PID:       pid,
	}
}

// TimeSliceEvent marks that the slice granted to the running process ends
// under Round Robin.
type TimeSliceEvent struct {
	*sim.EventBase
	PID int
}

// NewTimeSliceEvent creates a TimeSliceEvent.
func NewTimeSliceEvent(
	t sim.VTime,
	handler sim.Handler,
	pid int,
) *TimeSliceEvent {
	return &TimeSliceEvent{
		EventBase: sim.NewSecondaryEventBase(t, handler),
		PID:       pid,
	}
}
