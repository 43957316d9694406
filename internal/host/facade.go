package host

import (
	"sync"
	"time"
)

// WaitResult is the outcome of a call to [Event.Wait] or [Semaphore.Wait].
type WaitResult int

const (
	// Signaled indicates the waitable became ready before the timeout.
	Signaled WaitResult = iota
	// TimedOut indicates the timeout elapsed before the waitable was ready.
	TimedOut
	// Failed indicates the host primitive could not be waited on at all.
	Failed
)

// Infinite is passed as a timeout to block with no deadline.
const Infinite = -1

// Section is a critical section: a non-reentrant mutual exclusion region.
// Init/Destroy are retained as named no-ops so call sites read like the
// host primitives they stand in for, and so a future real-host facade can
// give them a body without changing any caller.
type Section struct {
	mu sync.Mutex
}

func (s *Section) Init()    {}
func (s *Section) Destroy() {}
func (s *Section) Enter()   { s.mu.Lock() }
func (s *Section) Leave()   { s.mu.Unlock() }

// Event is a manual- or auto-reset waitable, signaled by Set and consumed
// by Wait. A manual-reset event stays signaled until Reset is called; an
// auto-reset event un-signals itself as soon as one waiter observes it.
type Event struct {
	manual bool
	mu     sync.Mutex
	state  bool
	ch     chan struct{}
}

// NewManualResetEvent creates an event that, once Set, stays signaled
// until Reset is called.
func NewManualResetEvent(initial bool) *Event {
	e := &Event{manual: true, ch: make(chan struct{})}
	if initial {
		e.state = true
		close(e.ch)
	}
	return e
}

// NewAutoResetEvent creates an event that un-signals itself as soon as a
// single waiter has consumed the signal.
func NewAutoResetEvent(initial bool) *Event {
	e := &Event{ch: make(chan struct{}, 1)}
	if initial {
		e.state = true
		e.ch <- struct{}{}
	}
	return e
}

// Set signals the event. For a manual-reset event this is idempotent; for
// an auto-reset event a second Set before any Wait consumes the first is a
// no-op (the event can only carry one pending signal).
func (e *Event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state {
		return
	}
	e.state = true
	if e.manual {
		close(e.ch)
	} else {
		select {
		case e.ch <- struct{}{}:
		default:
		}
	}
}

// Reset clears a manual-reset event's signaled state. Reset on an
// auto-reset event is a no-op: it resets itself on Wait.
func (e *Event) Reset() {
	if !e.manual {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state {
		return
	}
	e.state = false
	e.ch = make(chan struct{})
}

// chanSnapshot returns the channel to select on, fixed at call time so a
// concurrent Reset of a manual event can't be observed mid-select.
func (e *Event) chanSnapshot() chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}

// Wait blocks until the event is signaled or timeoutMS elapses (Infinite
// for no deadline). For an auto-reset event, a successful wait consumes
// the signal.
func (e *Event) Wait(timeoutMS int) WaitResult {
	ch := e.chanSnapshot()
	if timeoutMS == 0 {
		select {
		case <-ch:
			e.consumed()
			return Signaled
		default:
			return TimedOut
		}
	}
	if timeoutMS < 0 {
		<-ch
		e.consumed()
		return Signaled
	}
	timer := time.NewTimer(time.Duration(timeoutMS) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ch:
		e.consumed()
		return Signaled
	case <-timer.C:
		return TimedOut
	}
}

func (e *Event) consumed() {
	if e.manual {
		return
	}
	e.mu.Lock()
	e.state = false
	e.mu.Unlock()
}

// SelectWait blocks on two events simultaneously (target and cancel),
// tie-breaking in favor of cancel when both are ready. It returns the
// index of the event that woke the wait (0 for target, 1 for cancel), or
// -1 with TimedOut if timeoutMS elapsed first.
func SelectWait(target, cancel *Event, timeoutMS int) (idx int, result WaitResult) {
	targetCh := target.chanSnapshot()
	cancelCh := cancel.chanSnapshot()

	// Non-blocking priority check: a cancel that is already pending must
	// never be swallowed by a simultaneous target wakeup.
	select {
	case <-cancelCh:
		cancel.consumed()
		return 1, Signaled
	default:
	}

	if timeoutMS == 0 {
		select {
		case <-cancelCh:
			cancel.consumed()
			return 1, Signaled
		case <-targetCh:
			target.consumed()
			return 0, Signaled
		default:
			return -1, TimedOut
		}
	}

	var timerC <-chan time.Time
	if timeoutMS > 0 {
		timer := time.NewTimer(time.Duration(timeoutMS) * time.Millisecond)
		defer timer.Stop()
		timerC = timer.C
	}

	select {
	case <-cancelCh:
		cancel.consumed()
		return 1, Signaled
	case <-targetCh:
		// Re-check cancel: both may have raced ready at once, and the
		// cancel must win that race (see above).
		select {
		case <-cancelCh:
			cancel.consumed()
			return 1, Signaled
		default:
		}
		target.consumed()
		return 0, Signaled
	case <-timerC:
		return -1, TimedOut
	}
}

// Semaphore is a counting semaphore: a mutex-guarded count plus a
// one-slot channel that wakes blocked waiters.
type Semaphore struct {
	mu     sync.Mutex
	value  int
	waiter chan struct{}
}

// NewSemaphore creates a semaphore with the given initial count.
func NewSemaphore(initial int) *Semaphore {
	return &Semaphore{value: initial, waiter: make(chan struct{}, 1)}
}

// Post increments the semaphore's count by n and wakes a waiter if n > 0.
func (s *Semaphore) Post(n int) {
	s.mu.Lock()
	s.value += n
	s.mu.Unlock()
	for i := 0; i < n; i++ {
		select {
		case s.waiter <- struct{}{}:
		default:
		}
	}
}

// TryWait attempts to decrement the count without blocking. It reports
// whether the decrement succeeded.
func (s *Semaphore) TryWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value > 0 {
		s.value--
		if s.value > 0 {
			// Pass the wakeup on: Post drops sends beyond the channel's
			// one slot, so remaining count must re-arm it for the next
			// blocked waiter.
			select {
			case s.waiter <- struct{}{}:
			default:
			}
		}
		return true
	}
	return false
}

// Value returns the current count.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Wait blocks, decrementing the count once it is positive, until
// timeoutMS elapses.
func (s *Semaphore) Wait(timeoutMS int) WaitResult {
	if s.TryWait() {
		return Signaled
	}
	deadline := time.Time{}
	if timeoutMS >= 0 {
		deadline = time.Now().Add(time.Duration(timeoutMS) * time.Millisecond)
	}
	for {
		var timerC <-chan time.Time
		if timeoutMS >= 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return TimedOut
			}
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			timerC = timer.C
		}
		select {
		case <-s.waiter:
			if s.TryWait() {
				return Signaled
			}
		case <-timerC:
			return TimedOut
		}
	}
}

// SelectWait blocks on the semaphore until it can be decremented, cancel
// is signaled, or timeoutMS elapses, tie-breaking in favor of cancel when
// both are ready at once. It mirrors the free Event.SelectWait function
// but for a semaphore target, since a semaphore's waiter channel is not a
// plain *Event. This is what lets pthread.Cond.Wait and pthread.Semaphore
// participate in deferred cancellation.
func (s *Semaphore) SelectWait(cancel *Event, timeoutMS int) (acquired bool, result WaitResult) {
	if s.TryWait() {
		return true, Signaled
	}

	cancelCh := cancel.chanSnapshot()
	select {
	case <-cancelCh:
		cancel.consumed()
		return false, Signaled
	default:
	}

	deadline := time.Time{}
	if timeoutMS >= 0 {
		deadline = time.Now().Add(time.Duration(timeoutMS) * time.Millisecond)
	}
	for {
		var timerC <-chan time.Time
		if timeoutMS >= 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return false, TimedOut
			}
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			timerC = timer.C
		}
		select {
		case <-cancelCh:
			cancel.consumed()
			return false, Signaled
		case <-s.waiter:
			if s.TryWait() {
				return true, Signaled
			}
			// Lost the race to another waiter; loop and try again.
		case <-timerC:
			return false, TimedOut
		}
	}
}

// AtomicExchangeWord atomically stores newVal into *addr and returns the
// previous value.
func AtomicExchangeWord(addr *uint64, newVal uint64) uint64 {
	return atomicSwap(addr, newVal)
}
