package pthread

import (
	"time"

	"github.com/jiuzhuaxiong/pthreads-go/internal/cancelwait"
	"github.com/jiuzhuaxiong/pthreads-go/internal/host"
)

// Semaphore is a counting semaphore: Wait blocks while the count is zero
// and decrements it once positive; Post increments it and wakes a waiter.
// Unlike Mutex, a semaphore has no notion of ownership — any thread may
// Post regardless of which thread is waiting.
type Semaphore struct {
	sem *host.Semaphore
}

// NewSemaphore creates a semaphore with the given non-negative initial
// count.
func NewSemaphore(initial int) (*Semaphore, error) {
	if initial < 0 {
		return nil, ErrInvalid
	}
	return &Semaphore{sem: host.NewSemaphore(initial)}, nil
}

// Wait blocks until the count is positive, then decrements it. Wait is a
// cancellation point.
func (s *Semaphore) Wait() error {
	return s.timedWait(host.Infinite)
}

// TryWait decrements the count without blocking, returning ErrAgain if it
// is currently zero.
func (s *Semaphore) TryWait() error {
	if s.sem.TryWait() {
		return nil
	}
	return ErrAgain
}

// TimedWait is Wait bounded by the absolute deadline abs, matching
// POSIX's sem_timedwait(abstime): the deadline is converted to a
// host-relative millisecond delta immediately before the wait, clamped
// at zero so a deadline already in the past still performs a
// zero-timeout poll rather than blocking (spec.md §5: "a timed wait on a
// ready primitive succeeds"). TimedWait returns ErrTimeout if the
// deadline elapses first.
func (s *Semaphore) TimedWait(abs time.Time) error {
	return s.timedWait(absToMillis(abs))
}

// absToMillis converts an absolute deadline to a host-relative
// millisecond delta for the cancellable-wait facade, clamping a
// non-positive delta to zero.
func absToMillis(abs time.Time) int {
	d := time.Until(abs)
	if d <= 0 {
		return 0
	}
	return int(d / time.Millisecond)
}

func (s *Semaphore) timedWait(timeoutMS int) error {
	t := current()
	cancelEvt := activeCancelEvent(t)

	switch cancelwait.WaitSemaphore(s.sem, cancelEvt, timeoutMS) {
	case cancelwait.Timeout:
		return ErrTimeout
	case cancelwait.Cancelled:
		deliverCancellation(t)
		return nil // unreachable
	default:
		return nil
	}
}

// Post increments the semaphore's count by one, waking a blocked waiter
// if any.
func (s *Semaphore) Post() error {
	s.sem.Post(1)
	return nil
}

// Value returns the semaphore's current count.
func (s *Semaphore) Value() int {
	return s.sem.Value()
}
