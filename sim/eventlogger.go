package sim

import (
	"fmt"
	"log"
	"strings"
)

// EventLogger is an engine hook that writes one line per handled event.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger creates an EventLogger that writes to logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func logs the event before the engine hands it to its handler.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	kind := strings.TrimPrefix(fmt.Sprintf("%T", evt), "*")

	if named, ok := evt.Handler().(Named); ok {
		h.logger.Printf("[%d] %s -> %s", evt.Time(), kind, named.Name())
		return
	}

	h.logger.Printf("[%d] %s", evt.Time(), kind)
}
