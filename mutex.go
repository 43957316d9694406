package pthread

import (
	"sync/atomic"

	"github.com/jiuzhuaxiong/pthreads-go/internal/cancelwait"
	"github.com/jiuzhuaxiong/pthreads-go/internal/host"
)

// Mutex is a POSIX-style mutex supporting three disciplines: Normal (no
// owner tracking, double-lock deadlocks the caller), Errorcheck (owner
// tracked, a recursive lock/unlock mismatch returns an error instead of
// deadlocking), and Recursive (owner tracked, a depth counter lets the
// owning thread re-lock any number of times).
//
// The zero value is not ready for use; construct with NewMutex. A
// package-level static initializer analogous to PTHREAD_MUTEX_INITIALIZER
// is deliberately not offered: this host has no link-time-constant struct
// literal that could stand in for one safely, so construction is always
// explicit.
type Mutex struct {
	kind MutexKind
	sec  host.Section

	locked atomic.Bool
	owner  *Thread
	depth  int32

	// unlockedEvt is a manual-reset event: signaled whenever m is
	// unlocked, reset whenever it is acquired. A contended Lock blocks on
	// it (raced against the calling thread's cancel event) instead of
	// spinning, so a blocked mutex lock is a cancellation point the way
	// Cond.Wait and Semaphore.Wait already are.
	unlockedEvt *host.Event
}

// NewMutex creates a Mutex. With no options it behaves as MutexNormal.
func NewMutex(opts ...MutexOption) (*Mutex, error) {
	attr := mutexAttr{kind: MutexNormal}
	for _, o := range opts {
		if err := o.applyMutex(&attr); err != nil {
			return nil, err
		}
	}
	kind := attr.kind
	if kind == MutexDefault {
		kind = MutexNormal
	}
	return &Mutex{kind: kind, unlockedEvt: host.NewManualResetEvent(true)}, nil
}

// Lock acquires m, blocking until it is available. For MutexNormal,
// relocking from the owning thread deadlocks exactly as POSIX specifies
// (this port blocks forever, rather than detecting it, since Normal is
// defined to have undefined — here, simply unrecoverable, except via
// cancellation — behavior on self-deadlock). For MutexErrorcheck a
// self-relock instead returns ErrDeadlock. For MutexRecursive a
// self-relock increments the depth counter and returns immediately.
//
// A contended lock is a cancellation point: Lock blocks on m's
// unlocked-event raced against the calling thread's cancel event, exactly
// like Cond.Wait and Semaphore.Wait.
func (m *Mutex) Lock() error {
	self := current()
	cancelEvt := activeCancelEvent(self)

	if m.kind != MutexNormal {
		m.sec.Enter()
		if m.locked.Load() && m.owner == self && self != nil {
			switch m.kind {
			case MutexRecursive:
				m.depth++
				m.sec.Leave()
				return nil
			case MutexErrorcheck:
				m.sec.Leave()
				return ErrDeadlock
			}
		}
		m.sec.Leave()
	}

	for {
		m.sec.Enter()
		if !m.locked.Load() {
			m.locked.Store(true)
			m.owner = self
			m.depth = 1
			m.unlockedEvt.Reset()
			m.sec.Leave()
			return nil
		}
		m.sec.Leave()

		if cancelwait.Wait(m.unlockedEvt, cancelEvt, host.Infinite) == cancelwait.Cancelled {
			deliverCancellation(self)
			return nil // unreachable: deliverCancellation never returns
		}
	}
}

// TryLock attempts to acquire m without blocking. It returns ErrBusy if m
// is already locked by another thread, applying the same discipline rules
// as Lock for a self-relock.
func (m *Mutex) TryLock() error {
	self := current()

	m.sec.Enter()
	defer m.sec.Leave()

	if !m.locked.Load() {
		m.locked.Store(true)
		m.owner = self
		m.depth = 1
		m.unlockedEvt.Reset()
		return nil
	}

	if m.owner == self && self != nil {
		switch m.kind {
		case MutexRecursive:
			m.depth++
			return nil
		case MutexErrorcheck:
			return ErrDeadlock
		}
	}
	return ErrBusy
}

// Unlock releases m. For MutexErrorcheck and MutexRecursive, unlocking
// from a thread that does not own m returns ErrPermission instead of
// corrupting the lock state; MutexNormal trusts the caller, matching
// POSIX's undefined behavior for that case.
func (m *Mutex) Unlock() error {
	self := current()

	m.sec.Enter()
	defer m.sec.Leave()

	if m.kind != MutexNormal {
		if !m.locked.Load() || m.owner != self {
			return ErrPermission
		}
	}

	if m.kind == MutexRecursive && m.depth > 1 {
		m.depth--
		return nil
	}

	m.locked.Store(false)
	m.owner = nil
	m.depth = 0
	m.unlockedEvt.Set()
	return nil
}

// Kind reports the discipline m was constructed with.
func (m *Mutex) Kind() MutexKind { return m.kind }
