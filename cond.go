package pthread

import (
	"github.com/jiuzhuaxiong/pthreads-go/internal/cancelwait"
	"github.com/jiuzhuaxiong/pthreads-go/internal/host"
)

// Cond is a condition variable, always used together with a Mutex. The
// algorithm — a waiters counter guarded by its own lock, a counting
// semaphore waiters block on, and a waiters-done event the last waiter of
// a broadcast signals — gets broadcast semantics with no lost or stolen
// wakeups out of primitives that do not offer an atomic "release mutex
// and wait" call.
type Cond struct {
	mu           host.Section
	waitersCount int
	wasBroadcast bool
	sema         *host.Semaphore
	waitersDone  *host.Event
}

// NewCond creates a ready-to-use condition variable.
func NewCond() *Cond {
	return &Cond{
		sema:        host.NewSemaphore(0),
		waitersDone: host.NewAutoResetEvent(false),
	}
}

// Wait atomically unlocks m and blocks the calling thread until Signal or
// Broadcast wakes it, then relocks m before returning. Wait is a
// cancellation point: on cancellation, m is relocked before the thread
// unwinds, exactly as a pending cleanup handler expects to find it.
func (c *Cond) Wait(m *Mutex) error {
	return c.waitTimeout(m, host.Infinite)
}

// WaitTimeout is Wait bounded by timeoutMS; it returns ErrTimeout if the
// deadline elapses first. m is relocked before WaitTimeout returns in
// every case, including timeout.
func (c *Cond) WaitTimeout(m *Mutex, timeoutMS int) error {
	return c.waitTimeout(m, timeoutMS)
}

func (c *Cond) waitTimeout(m *Mutex, timeoutMS int) error {
	t := current()
	cancelEvt := activeCancelEvent(t)

	c.mu.Enter()
	c.waitersCount++
	c.mu.Leave()

	if err := m.Unlock(); err != nil {
		c.mu.Enter()
		c.waitersCount--
		c.mu.Leave()
		return err
	}

	result := cancelwait.WaitSemaphore(c.sema, cancelEvt, timeoutMS)

	c.mu.Enter()
	c.waitersCount--
	lastWaiter := c.wasBroadcast && c.waitersCount == 0
	c.mu.Leave()

	if lastWaiter {
		c.waitersDone.Set()
	}

	// Mutex.Lock is itself a cancellation point; keep it from unwinding
	// before m is held again.
	oldState, _ := SetCancelState(CancelDisable)
	_ = m.Lock()
	_, _ = SetCancelState(oldState)

	switch result {
	case cancelwait.Timeout:
		return ErrTimeout
	case cancelwait.Cancelled:
		deliverCancellation(t)
		return nil // unreachable: deliverCancellation never returns
	default:
		return nil
	}
}

// Signal wakes at most one thread blocked in Wait, if any are waiting.
func (c *Cond) Signal() error {
	c.mu.Enter()
	haveWaiters := c.waitersCount > 0
	c.mu.Leave()
	if haveWaiters {
		c.sema.Post(1)
	}
	return nil
}

// Broadcast wakes every thread currently blocked in Wait.
func (c *Cond) Broadcast() error {
	c.mu.Enter()
	haveWaiters := false
	n := 0
	if c.waitersCount > 0 {
		c.wasBroadcast = true
		haveWaiters = true
		n = c.waitersCount
	}
	c.mu.Leave()

	if haveWaiters {
		c.sema.Post(n)
		c.waitersDone.Wait(host.Infinite)
		c.mu.Enter()
		c.wasBroadcast = false
		c.mu.Leave()
	}
	return nil
}
