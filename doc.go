// Package pthread is a user-space implementation of the POSIX-1003.1c
// thread API, ported onto a host that supplies only goroutines, channels,
// and sync/atomic — see [github.com/jiuzhuaxiong/pthreads-go/internal/host]
// for the facade that stands in for the kernel primitives a native port
// would use instead.
//
// The package provides threads with joinable/detached lifecycles,
// deferred and asynchronous cancellation, thread-specific data with
// destructors, mutexes (normal/errorcheck/recursive), condition
// variables, read/write locks, barriers, spinlocks, semaphores with timed
// waits, and once-initialization, with the semantics the standard
// mandates rather than whatever Go's own sync package happens to offer.
//
// # Thread identity
//
// A *Thread is an opaque handle to a runtime-internal descriptor. The
// runtime maintains a LIFO reuse pool of descriptors for the process
// lifetime: a retired descriptor's fields are zeroed before it is handed
// back out, so two sequential Create/Join pairs never observe a stale
// exit value or a reused cancel event, even if the underlying descriptor
// object is the same one.
//
// # Cancellation
//
// Deferred cancellation (the default) takes effect only at cancellation
// points: Join, a contended Mutex.Lock, Cond.Wait/WaitTimeout, RWMutex's
// blocking lock calls, Barrier.Wait, Semaphore.Wait/TimedWait, Sleep, and
// TestCancel. Asynchronous cancellation takes effect at the same points;
// a thread running code with no cancellation point in it is not
// interrupted. A
// cancelled thread's cleanup handlers run in LIFO order, then its
// thread-specific data destructors, and its exit value becomes Canceled.
package pthread
