package host

import "sync/atomic"

// atomicSwap is split into its own file so the one raw sync/atomic
// function call this package needs is easy to audit; everything else in
// host built on top of atomics uses the atomic.* struct types instead of
// raw pointers.
func atomicSwap(addr *uint64, newVal uint64) uint64 {
	return atomic.SwapUint64(addr, newVal)
}
