package sim

// VTime defines the time in the simulated space. The simulation runs on an
// integer time axis, one unit per tick of the synthetic clock.
type VTime int64

// An Event is something going to happen in the future.
type Event interface {
	// Return the time that the event should happen
	Time() VTime

	// Returns the handler that can should handle the event
	Handler() Handler

	// IsSecondary tells if the event is a secondary event. Secondary event are
	// handled after all same-time primary events are handled.
	IsSecondary() bool
}

// EventBase provides the basic fields and getters for other events
type EventBase struct {
	ID        string
	time      VTime
	handler   Handler
	secondary bool
}

// NewEventBase creates a new EventBase
func NewEventBase(t VTime, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.handler = handler
	e.secondary = false

	return e
}

// NewSecondaryEventBase creates a new EventBase that is handled after all the
// primary events scheduled at the same time.
func NewSecondaryEventBase(t VTime, handler Handler) *EventBase {
	e := NewEventBase(t, handler)
	e.secondary = true

	return e
}

// Time return the time that the event is going to happen
func (e EventBase) Time() VTime {
	return e.time
}

// SetHandler sets which handler that handles the event.
//
// A handler can only schedule events for itself. The only exception is the
// kick-start of the simulation, where the seeding code can schedule events
// for any handler.
func (e *EventBase) SetHandler(h Handler) {
	e.handler = h
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler defines a domain for the events.
//
// One event is always constraint to one Handler, which means the event can
// only be scheduled by one handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}
