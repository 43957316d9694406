package pthread

import (
	"runtime"
	"sync/atomic"
)

// Spinlock is a lock intended for very short critical sections: on a
// uniprocessor, busy-spinning can never let the lock's owner make
// progress, since the owner can only run once the spinner yields its one
// core, so Spinlock yields every iteration rather than spinning tight in
// that case.
type Spinlock struct {
	state atomic.Bool
}

// NewSpinlock creates an unlocked spinlock.
func NewSpinlock() (*Spinlock, error) {
	return &Spinlock{}, nil
}

// Lock spins until the lock is acquired.
func (s *Spinlock) Lock() error {
	uniprocessor := runtime.GOMAXPROCS(0) <= 1
	for {
		if s.state.CompareAndSwap(false, true) {
			return nil
		}
		if uniprocessor {
			yieldToScheduler()
		}
	}
}

// TryLock attempts to acquire the lock without spinning, returning
// ErrBusy if it is currently held.
func (s *Spinlock) TryLock() error {
	if s.state.CompareAndSwap(false, true) {
		return nil
	}
	return ErrBusy
}

// Unlock releases the lock. Unlocking an already-unlocked spinlock
// returns ErrPermission.
func (s *Spinlock) Unlock() error {
	if !s.state.CompareAndSwap(true, false) {
		return ErrPermission
	}
	return nil
}
