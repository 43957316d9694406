package pthread

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// atomicState is a cache-line-padded CAS state word backing the process
// lifecycle's uninitialized/initialized/tornDown transitions: pure atomic
// compare-and-swap, no validation of transition legality beyond the
// from/to pair the caller supplies, padding on both sides to avoid false
// sharing with whatever else lives in the same struct as a primitive's
// state word. The padding size comes from golang.org/x/sys/cpu rather
// than a hardcoded guess.
type atomicState struct {
	_ cpu.CacheLinePad
	v atomic.Uint32
	_ cpu.CacheLinePad
}

func newAtomicState(initial uint32) *atomicState {
	s := &atomicState{}
	s.v.Store(initial)
	return s
}

func (s *atomicState) Load() uint32 { return s.v.Load() }

func (s *atomicState) CAS(from, to uint32) bool {
	return s.v.CompareAndSwap(from, to)
}
