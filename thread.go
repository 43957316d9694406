package pthread

import (
	"github.com/jiuzhuaxiong/pthreads-go/internal/cancelwait"
	"github.com/jiuzhuaxiong/pthreads-go/internal/host"
)

// Create starts a new thread running entry(arg), returning a descriptor
// used to Join, Cancel, or Detach it. entry's return value becomes the
// value a subsequent Join observes.
func Create(entry func(arg any) any, arg any, opts ...ThreadOption) (*Thread, error) {
	attr := defaultThreadAttr()
	for _, o := range opts {
		if err := o.applyThread(&attr); err != nil {
			return nil, err
		}
	}

	t := acquireDescriptor()
	t.entry = entry
	t.arg = arg
	t.detachState = attr.detachState
	t.cancelState = CancelEnable
	t.cancelType = CancelDeferred
	t.cancelPending = false
	t.priority = attr.priority
	t.cancelEvent = host.NewManualResetEvent(false)
	t.joined.Store(false)

	// The creator holds cancelMu across CreateThread and only releases it
	// once the descriptor's host handle is installed; the trampoline's
	// very first act is to acquire and immediately release the same
	// lock, so the child never runs entry (or even exposes itself via
	// Self()) before the descriptor it is running on is fully built: the
	// creator and the new thread rendezvous on the descriptor's own lock
	// before either proceeds.
	t.cancelMu.Enter()

	handle, err := host.CreateThread(func() { trampoline(t) }, attr.stackSizeHint)
	if err != nil {
		t.cancelMu.Leave()
		retireDescriptor(t)
		return nil, err
	}
	t.hostHandle = handle
	t.cancelMu.Leave()

	return t, nil
}

// trampoline is every thread's actual goroutine body. It runs entry,
// recognizes the two sentinel panics (cancellation, Exit) that represent
// a non-local exit distinct from an ordinary return or a genuine bug in
// user code, and always leaves the descriptor in the state Join or
// Detach expects to find it in.
func trampoline(t *Thread) {
	t.cancelMu.Enter()
	t.cancelMu.Leave()

	selfSlot.Set(t)

	var result any
	func() {
		defer func() {
			if r := recover(); r != nil {
				switch v := r.(type) {
				case cancelSignal:
					result = Canceled
				case exitSignal:
					result = v.value
				default:
					logf(LevelError, "thread entry panicked", map[string]any{"recover": r})
					result = Canceled
				}
			}
		}()
		result = t.entry(t.arg)
	}()

	unwindCleanup(t)
	threadExitDestructorSweep(t)

	t.exitValue = result

	selfSlot.Free()
	cleanupSlot.Free()

	// The terminated-unjoined transition must happen under detachMu, in
	// the same critical section Detach uses to set Detached and read the
	// lifecycle: otherwise the two can interleave as "trampoline reads
	// detached=false, Detach sets Detached and reads lifecycle=live (the
	// transition below hasn't happened yet), trampoline then sets
	// terminated-unjoined" — a descriptor that is Detached and
	// terminated-unjoined with neither path having retired it. Deciding
	// and acting inside one lock makes the two paths mutually exclusive:
	// whichever of Detach/trampoline observes the other's prior write is
	// the one that retires.
	t.detachMu.Enter()
	detached := t.detachState == Detached
	if !detached {
		t.setLifecycle(lifecycleTerminatedUnjoined)
	}
	t.detachMu.Leave()

	if detached {
		retireDescriptor(t)
	}
}

// Exit terminates the calling thread, making value the result a
// subsequent Join observes. Exit is logically equivalent to returning
// value from the thread's entry function; it exists for callers that
// need to terminate from a nested call rather than by returning all the
// way up. Exit never returns. Calling it with no current thread (the
// process's initial goroutine, or a goroutine not created via Create) is
// a no-op.
func Exit(value any) {
	if current() == nil {
		return
	}
	panic(exitSignal{value: value})
}

// Join blocks until t terminates, then returns the value it exited with
// (its entry function's return value, an Exit argument, or [Canceled] if
// it was cancelled). Join may be called at most once per thread; a
// second call, or a call against a detached thread, returns ErrInvalid.
// Joining the calling thread's own descriptor returns ErrDeadlock. Join
// is itself a cancellation point for the calling thread: a cancellation
// delivered while blocked in Join unwinds the joiner, not the target.
func Join(t *Thread) (any, error) {
	if t == nil || t.hostHandle == nil {
		return nil, ErrInvalid
	}
	if Equal(t, current()) {
		return nil, ErrDeadlock
	}

	t.detachMu.Enter()
	detached := t.detachState == Detached
	t.detachMu.Leave()
	if detached {
		return nil, ErrInvalid
	}

	if !t.joined.CompareAndSwap(false, true) {
		return nil, ErrInvalid
	}

	self := current()
	cancelEvt := activeCancelEvent(self)
	if cancelwait.Wait(t.hostHandle.Handle(), cancelEvt, host.Infinite) == cancelwait.Cancelled {
		deliverCancellation(self)
		return nil, nil // unreachable
	}

	result := t.exitValue
	retireDescriptor(t)
	return result, nil
}

// Detach marks t so its resources are reclaimed automatically on exit,
// instead of requiring a Join. Detaching an already-detached thread
// returns ErrInvalid. If t has already terminated and is simply waiting
// to be joined, Detach finishes reclaiming it immediately.
func Detach(t *Thread) error {
	if t == nil {
		return ErrInvalid
	}

	t.detachMu.Enter()
	// A reclaimed descriptor has had its detach state reset to Joinable,
	// so its lifecycle is what marks it as no longer detachable.
	l := t.getLifecycle()
	if t.detachState == Detached || l == lifecyclePooled || l == lifecycleRetired {
		t.detachMu.Leave()
		return ErrInvalid
	}
	t.detachState = Detached
	finished := t.getLifecycle() == lifecycleTerminatedUnjoined
	t.detachMu.Leave()

	if finished {
		retireDescriptor(t)
	}
	return nil
}
