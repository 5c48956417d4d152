package cpu

import (
	"log"

	"github.com/sarchlab/schedsim/sim"
)

// Builder can build dispatchers.
type Builder struct {
	engine sim.EventScheduler
	policy Policy
}

// MakeBuilder returns a Builder with the FCFS policy.
func MakeBuilder() Builder {
	return Builder{
		policy: FCFS(),
	}
}

// WithEngine sets the engine that the dispatcher schedules events on.
func (b Builder) WithEngine(engine sim.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithPolicy sets the scheduling policy.
func (b Builder) WithPolicy(policy Policy) Builder {
	b.policy = policy
	return b
}

// Build creates a dispatcher with the given name.
func (b Builder) Build(name string) *Dispatcher {
	if b.engine == nil {
		log.Panic("engine is not set")
	}

	if err := b.policy.Validate(); err != nil {
		log.Panic(err)
	}

	d := &Dispatcher{
		engine:    b.engine,
		policy:    b.policy,
		running:   noProcess,
		lastOnCPU: noProcess,
	}
	d.ComponentBase = sim.NewComponentBase(name)

	return d
}
