package pthread

import (
	"sync/atomic"

	"github.com/jiuzhuaxiong/pthreads-go/internal/host"
)

// lifecycle is a descriptor's position in its four-state machine:
// pooled → live → terminatedUnjoined → retired → pooled.
type lifecycle uint32

const (
	lifecyclePooled lifecycle = iota
	lifecycleLive
	lifecycleTerminatedUnjoined
	lifecycleRetired
)

// Thread is an opaque handle to a runtime-internal thread descriptor.
// Identity is pointer identity: two *Thread values are Equal iff they
// point at the same descriptor. The descriptor reuse pool guarantees a
// token is never silently reassigned to a different logical thread
// within a process run — retired descriptors only return to the pool
// fully zeroed, and are only freed back to the allocator at process
// teardown.
type Thread struct {
	lifecycle atomic.Uint32 // holds a lifecycle value; CAS'd from multiple goroutines

	hostHandle *host.ThreadHandle

	entry func(arg any) any
	arg   any

	// exitValue is written exactly once, by the trampoline, strictly
	// before the thread's host handle is signaled; Join only ever reads
	// it after observing that signal via hostHandle, so the
	// happens-before edge the host event already provides makes a plain
	// field safe here without its own lock.
	exitValue any

	detachMu    host.Section
	detachState DetachState

	cancelMu      host.Section
	cancelState   CancelState
	cancelType    CancelType
	cancelPending bool
	cancelEvent   *host.Event

	cleanupTop *cleanupRecord

	keyAssocHead *assoc

	joined atomic.Bool

	priority int

	prevReuse *Thread
}

// reusePool is the strict-LIFO free list of descriptors, kept for the
// process lifetime so thread identity comparisons stay valid by pointer:
// descriptors are not freed back to the allocator except at process
// teardown.
var reusePool struct {
	sec host.Section
	top *Thread
}

func acquireDescriptor() *Thread {
	reusePool.sec.Enter()
	d := reusePool.top
	if d != nil {
		reusePool.top = d.prevReuse
	}
	reusePool.sec.Leave()

	if d == nil {
		d = &Thread{}
	}
	d.lifecycle.Store(uint32(lifecycleLive))
	return d
}

// retireDescriptor closes the cancel event and zeroes every field: the
// only thing preserved across a retire→acquire cycle is pointer identity
// itself. The descriptor object is reused; its content is not.
func retireDescriptor(d *Thread) {
	d.lifecycle.Store(uint32(lifecycleRetired))

	d.hostHandle = nil
	d.entry = nil
	d.arg = nil
	d.exitValue = nil
	d.detachState = Joinable
	d.cancelState = CancelEnable
	d.cancelType = CancelDeferred
	d.cancelPending = false
	d.cancelEvent = nil
	d.cleanupTop = nil
	d.keyAssocHead = nil
	d.joined.Store(false)
	d.priority = 0

	d.lifecycle.Store(uint32(lifecyclePooled))

	reusePool.sec.Enter()
	d.prevReuse = reusePool.top
	reusePool.top = d
	reusePool.sec.Leave()
}

func (d *Thread) getLifecycle() lifecycle { return lifecycle(d.lifecycle.Load()) }

func (d *Thread) setLifecycle(l lifecycle) { d.lifecycle.Store(uint32(l)) }

func (d *Thread) casLifecycle(from, to lifecycle) bool {
	return d.lifecycle.CompareAndSwap(uint32(from), uint32(to))
}

// Equal reports whether a and b identify the same thread. Either may be
// nil; two nils are not considered Equal (there is no "nil thread").
func Equal(a, b *Thread) bool {
	return a != nil && b != nil && a == b
}
