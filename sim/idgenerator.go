package sim

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// IDGenerator hands out IDs that are unique within a process.
type IDGenerator interface {
	Generate() string
}

var (
	idGeneratorOnce sync.Once
	idGenerator     *counterIDGenerator
)

// GetIDGenerator returns the shared generator. IDs are decimal counters, so
// two runs that create the same objects in the same order get the same IDs.
func GetIDGenerator() IDGenerator {
	idGeneratorOnce.Do(func() {
		idGenerator = &counterIDGenerator{}
	})

	return idGenerator
}

type counterIDGenerator struct {
	last atomic.Uint64
}

func (g *counterIDGenerator) Generate() string {
	return strconv.FormatUint(g.last.Add(1), 10)
}
