package pthread

import "github.com/jiuzhuaxiong/pthreads-go/internal/host"

// cancelSignal is the sentinel panic value the trampoline recovers to
// recognize "this goroutine unwound because of a cancellation", as
// opposed to a genuine panic from user code.
type cancelSignal struct{}

// exitSignal is the sentinel panic value Exit raises to perform its
// non-local jump back to the trampoline, carrying the value Join should
// observe.
type exitSignal struct{ value any }

// Cancel requests cancellation of t. It is always async-safe to call and
// never blocks; whether and when it actually terminates t depends on t's
// cancel state and type and on t reaching a cancellation point.
func Cancel(t *Thread) error {
	if t == nil {
		return ErrInvalid
	}
	if t.getLifecycle() != lifecycleLive {
		return ErrSearch
	}

	t.cancelMu.Enter()
	t.cancelPending = true
	evt := t.cancelEvent
	t.cancelMu.Leave()

	if evt != nil {
		evt.Set()
	}
	return nil
}

// TestCancel is an explicit cancellation point with no other effect: a
// thread with a pending, enabled cancellation request that calls
// TestCancel does not return from the call.
func TestCancel() {
	t := current()
	if t == nil {
		return
	}
	if cancelEnabledAndPending(t) {
		deliverCancellation(t)
	}
}

// SetCancelState sets the calling thread's cancel state, returning the
// previous value. Disabling cancellation does not clear a pending
// request; it only suppresses delivery until re-enabled.
func SetCancelState(state CancelState) (CancelState, error) {
	if state != CancelEnable && state != CancelDisable {
		return 0, ErrInvalid
	}
	t := current()
	if t == nil {
		return CancelEnable, nil
	}
	t.cancelMu.Enter()
	old := t.cancelState
	t.cancelState = state
	t.cancelMu.Leave()
	return old, nil
}

// SetCancelType sets the calling thread's cancel type, returning the
// previous value. CancelAsynchronous is honored only at cancellation
// points and at TestCancel: this port cannot interrupt a goroutine that
// is executing ordinary Go code with no cancellation-aware call in it,
// unlike a native host's asynchronous signal delivery.
func SetCancelType(typ CancelType) (CancelType, error) {
	if typ != CancelDeferred && typ != CancelAsynchronous {
		return 0, ErrInvalid
	}
	t := current()
	if t == nil {
		return CancelDeferred, nil
	}
	t.cancelMu.Enter()
	old := t.cancelType
	t.cancelType = typ
	t.cancelMu.Leave()
	return old, nil
}

// cancelEnabledAndPending reports whether t has a pending cancellation
// request and cancellation is currently enabled, atomically clearing the
// pending flag if so (a thread only ever unwinds for cancellation once).
func cancelEnabledAndPending(t *Thread) bool {
	t.cancelMu.Enter()
	defer t.cancelMu.Leave()
	if t.cancelPending && t.cancelState == CancelEnable {
		t.cancelPending = false
		return true
	}
	return false
}

// activeCancelEvent returns t's cancel event if cancellation is currently
// enabled, or nil otherwise. Passing nil to a cancellable wait makes it
// behave as a plain, uncancellable wait — exactly the effect a disabled
// cancel state must have on a cancellation point.
func activeCancelEvent(t *Thread) *host.Event {
	if t == nil {
		return nil
	}
	t.cancelMu.Enter()
	defer t.cancelMu.Leave()
	if t.cancelState != CancelEnable {
		return nil
	}
	return t.cancelEvent
}

// deliverCancellation performs the non-local jump back to the
// trampoline, which runs the calling thread's cleanup-stack unwind and
// thread-specific-data destructor sweep once it recovers the panic — see
// trampoline in thread.go. It never returns. Centralizing the unwind and
// sweep at the trampoline, rather than running them at the cancellation
// point itself before panicking, adapts the POSIX model's "unwind at the
// cancellation point" ordering to Go's recover-only-at-the-deferring-frame
// model: no user code runs during a Go panic's unwind besides deferred
// functions, so the two are observably equivalent, and a single call site
// keeps cancellation, explicit Exit, and an ordinary panic in user code
// all converge on the same cleanup path.
func deliverCancellation(t *Thread) {
	panic(cancelSignal{})
}
