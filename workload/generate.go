package workload

import (
	"math/rand"

	"github.com/sarchlab/schedsim/cpu"
	"github.com/sarchlab/schedsim/sim"
)

// Generator limits for arrivals and bursts.
const (
	MaxArrivalGap = 10
	MinBurst      = 1
	MaxBurst      = 100
)

// Generate creates n processes with IDs from 1. Arrivals do not decrease and
// the first arrival is 0. The same seed gives the same workload.
func Generate(n int, seed int64) []cpu.Process {
	r := rand.New(rand.NewSource(seed))

	processes := make([]cpu.Process, 0, n)
	arrival := sim.VTime(0)

	for i := 0; i < n; i++ {
		if i > 0 {
			arrival += sim.VTime(r.Intn(MaxArrivalGap + 1))
		}

		burst := sim.VTime(MinBurst + r.Intn(MaxBurst-MinBurst+1))
		processes = append(processes, cpu.NewProcess(i+1, arrival, burst))
	}

	return processes
}
