package sim

// TimeTeller reports the time of the event being handled.
type TimeTeller interface {
	CurrentTime() VTime
}

// EventScheduler accepts events that happen no earlier than the current time.
type EventScheduler interface {
	TimeTeller
	Schedule(e Event)
}

// An EndHandler runs once the event queues are drained.
type EndHandler interface {
	Handle(now VTime)
}

// An Engine drains scheduled events in time order.
type Engine interface {
	Hookable
	EventScheduler

	// Run handles events until none remain or a handler fails.
	Run() error

	// Pause blocks the run loop before the next event.
	Pause()

	// Continue releases a paused run loop.
	Continue()

	// RegisterEndHandler adds a handler that Finished calls.
	RegisterEndHandler(handler EndHandler)

	// Finished notifies every registered EndHandler with the final time.
	Finished()
}
