package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/sim"
)

// A ProgressBar counts the processes of a run that have arrived and
// completed.
type ProgressBar struct {
	mu        sync.Mutex
	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	arrived   uint64
	completed uint64
}

type progressView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Completed uint64    `json:"completed"`
	Active    uint64    `json:"active"`
}

// Arrive records a process that entered the system.
func (b *ProgressBar) Arrive() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.arrived++
}

// Complete records a process that left the system.
func (b *ProgressBar) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.completed++
}

// Counts returns the number of completed processes and the number of
// processes that arrived but have not completed.
func (b *ProgressBar) Counts() (completed, active uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.completed, b.arrived - b.completed
}

func (b *ProgressBar) view() progressView {
	completed, active := b.Counts()

	return progressView{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Completed: completed,
		Active:    active,
	}
}

// ProgressHook moves a progress bar as processes arrive and complete. It
// should be attached to both the engine and the dispatcher.
type ProgressHook struct {
	bar *ProgressBar
}

// NewProgressHook creates a ProgressHook.
func NewProgressHook(bar *ProgressBar) *ProgressHook {
	return &ProgressHook{bar: bar}
}

// Func updates the bar.
func (h *ProgressHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeEvent:
		if _, ok := ctx.Item.(*cpu.ArrivalEvent); ok {
			h.bar.Arrive()
		}
	case cpu.HookPosProcessDone:
		h.bar.Complete()
	}
}
