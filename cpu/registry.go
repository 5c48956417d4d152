package cpu

import (
	"fmt"
)

// Registry owns the process records of a run. Records are stored in a dense
// slice in input order and are addressed by their index.
type Registry struct {
	records []Process
	index   map[int]int
}

// NewRegistry copies the processes into a new registry. It rejects
// duplicated IDs.
func NewRegistry(processes []Process) (*Registry, error) {
	r := &Registry{
		records: make([]Process, 0, len(processes)),
		index:   make(map[int]int, len(processes)),
	}

	for _, p := range processes {
		if _, found := r.index[p.ID]; found {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}

		p.RemainingTime = p.BurstTime
		p.StartTime = 0
		p.EndTime = 0
		p.Dispatches = 0
		p.started = false
		p.finished = false

		r.index[p.ID] = len(r.records)
		r.records = append(r.records, p)
	}

	return r, nil
}

// Lookup returns the index of the process with the given ID.
func (r *Registry) Lookup(id int) (int, bool) {
	i, found := r.index[id]
	return i, found
}

// MustLookup returns the index of the process with the given ID and panics
// if the ID is unknown.
func (r *Registry) MustLookup(id int) int {
	i, found := r.index[id]
	if !found {
		panic(fmt.Sprintf("process %d is not registered", id))
	}

	return i
}

// At returns the record at index i.
func (r *Registry) At(i int) *Process {
	return &r.records[i]
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns a copy of all the records in input order.
func (r *Registry) Records() []Process {
	out := make([]Process, len(r.records))
	copy(out, r.records)

	return out
}
