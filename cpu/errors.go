package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a process or the policy cannot be
	// simulated.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateID is returned when two processes share an ID.
	ErrDuplicateID = fmt.Errorf("%w: duplicated process id", ErrInvalidInput)

	// ErrEmptyProcessSet is returned when there is nothing to simulate.
	ErrEmptyProcessSet = errors.New("empty process set")
)

// Validate checks the processes and the policy before a run.
func Validate(processes []Process, policy Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	if len(processes) == 0 {
		return ErrEmptyProcessSet
	}

	seen := make(map[int]bool, len(processes))
	for _, p := range processes {
		if p.ArrivalTime < 0 {
			return fmt.Errorf("%w: process %d has negative arrival time %d",
				ErrInvalidInput, p.ID, p.ArrivalTime)
		}

		if p.BurstTime <= 0 {
			return fmt.Errorf("%w: process %d has non-positive burst time %d",
				ErrInvalidInput, p.ID, p.BurstTime)
		}

		if seen[p.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}

		seen[p.ID] = true
	}

	return nil
}
