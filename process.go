package pthread

import (
	"github.com/jiuzhuaxiong/pthreads-go/internal/host"
)

// Process-wide state: the two reserved TLS slots, plus the initialized
// flag. On this host there is no dynamic-library entry point to hook, so
// Init is idempotent and safe to call from any goroutine at any time
// before the first pthread call; init() below calls it automatically so
// static-linkage callers never have to think about it, while still
// exposing Init/Teardown for symmetry with a native port's process
// lifecycle.
var (
	selfSlot    = host.AllocTLSSlot()
	cleanupSlot = host.AllocTLSSlot()

	initState = newAtomicState(processUninitialized)
)

const (
	processUninitialized uint32 = iota
	processInitialized
	processTornDown
)

func init() {
	Init()
}

// Init performs process-wide initialization: allocating the reserved TLS
// slots (already done at package init time on this host) and marking the
// runtime ready. The uninitialized→initialized transition is CAS-guarded
// so concurrent callers race for it exactly once; losers (including a
// call after Teardown) are harmless no-ops.
func Init() {
	initState.CAS(processUninitialized, processInitialized)
}

// Teardown reverses Init: it frees every descriptor remaining on the
// reuse pool. This is the one point in the runtime's lifetime where
// retired descriptors are actually freed back to the allocator; calling
// any other pthread function afterward is undefined, matching a native
// host's process-detach contract. The initialized→tornDown transition is
// CAS-guarded, so only the caller that wins it actually clears the pool;
// a second concurrent or repeated Teardown call is a no-op.
func Teardown() {
	if !initState.CAS(processInitialized, processTornDown) {
		return
	}

	reusePool.sec.Enter()
	reusePool.top = nil
	reusePool.sec.Leave()
}

// current returns the calling goroutine's thread descriptor, or nil if
// the goroutine was never created via Create (e.g. a plain goroutine, or
// the process's initial goroutine). Every cancellation-aware operation
// in this package starts here.
func current() *Thread {
	v := selfSlot.Get()
	if v == nil {
		return nil
	}
	return v.(*Thread)
}

// Self returns the descriptor for the calling thread, or nil if the
// calling goroutine was not created via Create.
func Self() *Thread {
	return current()
}
