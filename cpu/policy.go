package cpu

import (
	"fmt"
	"strings"

	"github.com/sarchlab/schedsim/sim"
)

// Algorithm names a scheduling discipline.
type Algorithm int

// The supported disciplines.
const (
	AlgorithmFCFS Algorithm = iota
	AlgorithmRoundRobin
)

// Policy is a scheduling discipline together with its parameters.
type Policy struct {
	Algorithm Algorithm
	Quantum   sim.VTime
}

// FCFS returns the First-Come First-Served policy.
func FCFS() Policy {
	return Policy{Algorithm: AlgorithmFCFS}
}

// RoundRobin returns the Round Robin policy with the given time quantum.
func RoundRobin(quantum sim.VTime) Policy {
	return Policy{Algorithm: AlgorithmRoundRobin, Quantum: quantum}
}

// ParsePolicy converts an algorithm name into a policy. Accepted names are
// "fcfs", "rr", "round_robin" and "roundrobin" in any case, plus the menu
// choices "1" and "2".
func ParsePolicy(name string, quantum int) (Policy, error) {
	var p Policy

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fcfs", "1":
		p = FCFS()
	case "rr", "round_robin", "roundrobin", "round-robin", "2":
		p = RoundRobin(sim.VTime(quantum))
	default:
		return Policy{}, fmt.Errorf("%w: unknown algorithm %q",
			ErrInvalidInput, name)
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}

	return p, nil
}

// IsRoundRobin tells if the policy preempts on time slices.
func (p Policy) IsRoundRobin() bool {
	return p.Algorithm == AlgorithmRoundRobin
}

// Validate checks the parameters of the policy.
func (p Policy) Validate() error {
	switch p.Algorithm {
	case AlgorithmFCFS:
		return nil
	case AlgorithmRoundRobin:
		if p.Quantum <= 0 {
			return fmt.Errorf("%w: time quantum must be positive, got %d",
				ErrInvalidInput, p.Quantum)
		}

		return nil
	default:
		return fmt.Errorf("%w: unknown algorithm %d",
			ErrInvalidInput, p.Algorithm)
	}
}

func (p Policy) String() string {
	if p.IsRoundRobin() {
		return fmt.Sprintf("RR(q=%d)", p.Quantum)
	}

	return "FCFS"
}

// sliceLength returns the CPU time granted to a process on dispatch.
func (p Policy) sliceLength(remaining sim.VTime) sim.VTime {
	if p.IsRoundRobin() && p.Quantum < remaining {
		return p.Quantum
	}

	return remaining
}
