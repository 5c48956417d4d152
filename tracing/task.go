package tracing

import "github.com/sarchlab/schedsim/sim"

// A Task is a piece of work that a domain performs during an interval of
// virtual time.
type Task struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	Kind      string    `json:"kind"`
	What      string    `json:"what"`
	Where     string    `json:"where"`
	StartTime sim.VTime `json:"start_time"`
	EndTime   sim.VTime `json:"end_time"`
	Detail    any       `json:"-"`
}

// Duration returns the length of the task.
func (t Task) Duration() sim.VTime {
	return t.EndTime - t.StartTime
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// KindIs returns a filter that accepts the tasks of the given kind.
func KindIs(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}
