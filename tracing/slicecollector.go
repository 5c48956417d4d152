package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/schedsim/sim"
)

// SliceCollector keeps every completed task that passes the filter, in the
// order the tasks end.
type SliceCollector struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	filter     TaskFilter
	inflight   map[string]Task
	completed  []Task
}

// NewSliceCollector creates a SliceCollector.
func NewSliceCollector(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *SliceCollector {
	return &SliceCollector{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]Task),
	}
}

// StartTask records the start of a task.
func (c *SliceCollector) StartTask(task Task) {
	if c.filter != nil && !c.filter(task) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	task.StartTime = c.timeTeller.CurrentTime()
	c.inflight[task.ID] = task
}

// EndTask moves a task from in-flight to completed.
func (c *SliceCollector) EndTask(task Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	original, ok := c.inflight[task.ID]
	if !ok {
		return
	}

	original.EndTime = c.timeTeller.CurrentTime()
	delete(c.inflight, task.ID)

	c.completed = append(c.completed, original)
}

// Tasks returns the completed tasks sorted by start time.
func (c *SliceCollector) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks := make([]Task, len(c.completed))
	copy(tasks, c.completed)

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].StartTime < tasks[j].StartTime
	})

	return tasks
}

// NumInflight returns the number of tasks that have started but not ended.
func (c *SliceCollector) NumInflight() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.inflight)
}
