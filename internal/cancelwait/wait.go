package cancelwait

import "github.com/jiuzhuaxiong/pthreads-go/internal/host"

// Result is the three-way outcome of a cancellable wait.
type Result int

const (
	// Ok means the target waitable was signaled.
	Ok Result = iota
	// Timeout means the deadline elapsed before either waitable fired.
	Timeout
	// Cancelled means the cancel waitable won the race. Wait does not
	// itself raise anything for this — it returns Cancelled and leaves
	// the caller to decide how to propagate it.
	Cancelled
)

// Wait blocks on target until it is signaled, cancel is signaled, or
// timeoutMS elapses (host.Infinite for no deadline). If cancel is nil,
// this reduces to a plain wait on target with no cancellation possible,
// which is what a caller with no current thread descriptor gets.
//
// When both target and cancel are ready, cancel always wins: a pending
// cancellation must never be swallowed by a simultaneous wakeup.
func Wait(target, cancel *host.Event, timeoutMS int) Result {
	if cancel == nil {
		switch target.Wait(timeoutMS) {
		case host.Signaled:
			return Ok
		default:
			return Timeout
		}
	}

	idx, result := host.SelectWait(target, cancel, timeoutMS)
	switch {
	case result == host.TimedOut:
		return Timeout
	case idx == 1:
		return Cancelled
	default:
		return Ok
	}
}

// WaitSemaphore is Wait's counterpart for a host.Semaphore target, used by
// Cond.Wait and Semaphore.TimedWait.
func WaitSemaphore(target *host.Semaphore, cancel *host.Event, timeoutMS int) Result {
	if cancel == nil {
		switch target.Wait(timeoutMS) {
		case host.Signaled:
			return Ok
		default:
			return Timeout
		}
	}

	acquired, result := target.SelectWait(cancel, timeoutMS)
	switch {
	case result == host.TimedOut:
		return Timeout
	case !acquired:
		return Cancelled
	default:
		return Ok
	}
}
