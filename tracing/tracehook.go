package tracing

import (
	"github.com/sarchlab/schedsim/sim"
)

// Hook is a hook that can trigger tracers.
type Hook struct {
	tracer Tracer
}

// NewHook creates a Hook
func NewHook(t Tracer) *Hook {
	return &Hook{
		tracer: t,
	}
}

// Func is the hook function
func (h *Hook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosTaskStart:
		h.tracer.StartTask(ctx.Item.(Task))
	case HookPosTaskEnd:
		h.tracer.EndTask(ctx.Item.(Task))
	}
}
