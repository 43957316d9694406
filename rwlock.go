package pthread

// RWMutex is a writer-preferring reader/writer lock: once a writer is
// waiting, no further readers are admitted ahead of it, avoiding writer
// starvation under a steady stream of readers. It is built, like a
// userspace pthread rwlock, out of an ordinary mutex plus two condition
// variables rather than a dedicated primitive.
type RWMutex struct {
	mu             *Mutex
	readers        int
	writer         bool
	writersWaiting int
	readersOK      *Cond // readers wait here for writer==false && writersWaiting==0
	writersOK      *Cond // writers wait here for writer==false && readers==0
}

// NewRWMutex creates a ready-to-use reader/writer lock.
func NewRWMutex() (*RWMutex, error) {
	mu, err := NewMutex()
	if err != nil {
		return nil, err
	}
	return &RWMutex{
		mu:        mu,
		readersOK: NewCond(),
		writersOK: NewCond(),
	}, nil
}

// RLock acquires rw for reading, blocking while a writer holds it or any
// writer is waiting. RLock is a cancellation point: Cond.Wait relocks
// rw.mu before delivering a cancellation panic, so the wait loop is
// wrapped in a deferred cleanup that releases rw.mu as the panic
// unwinds through this frame; without it, rw.mu would stay locked
// forever and deadlock every other thread on rw.
func (rw *RWMutex) RLock() error {
	_ = rw.mu.Lock()
	acquired := false
	defer func() {
		if !acquired {
			_ = rw.mu.Unlock()
		}
	}()
	for rw.writer || rw.writersWaiting > 0 {
		if err := rw.readersOK.Wait(rw.mu); err != nil {
			return err
		}
	}
	rw.readers++
	acquired = true
	return rw.mu.Unlock()
}

// TryRLock attempts to acquire rw for reading without blocking, returning
// ErrBusy if a writer holds or is waiting for it.
func (rw *RWMutex) TryRLock() error {
	if err := rw.mu.TryLock(); err != nil {
		return err
	}
	defer rw.mu.Unlock()
	if rw.writer || rw.writersWaiting > 0 {
		return ErrBusy
	}
	rw.readers++
	return nil
}

// RUnlock releases a read lock held by the calling thread.
func (rw *RWMutex) RUnlock() error {
	_ = rw.mu.Lock()
	rw.readers--
	if rw.readers == 0 {
		_ = rw.writersOK.Signal()
	}
	return rw.mu.Unlock()
}

// Lock acquires rw for writing, blocking until no reader or other writer
// holds it. Lock is a cancellation point with the same hazard as RLock:
// a deferred cleanup releases rw.mu and decrements writersWaiting as a
// cancellation panic unwinds through this frame, so rw is never left
// deadlocked for the waiters behind a cancelled writer.
func (rw *RWMutex) Lock() error {
	_ = rw.mu.Lock()
	rw.writersWaiting++
	acquired := false
	defer func() {
		if !acquired {
			rw.writersWaiting--
			_ = rw.mu.Unlock()
		}
	}()
	for rw.writer || rw.readers > 0 {
		if err := rw.writersOK.Wait(rw.mu); err != nil {
			return err
		}
	}
	rw.writersWaiting--
	rw.writer = true
	acquired = true
	return rw.mu.Unlock()
}

// TryLock attempts to acquire rw for writing without blocking, returning
// ErrBusy if any reader or writer currently holds it.
func (rw *RWMutex) TryLock() error {
	if err := rw.mu.TryLock(); err != nil {
		return err
	}
	defer rw.mu.Unlock()
	if rw.writer || rw.readers > 0 {
		return ErrBusy
	}
	rw.writer = true
	return nil
}

// Unlock releases a write lock held by the calling thread, waking a
// waiting writer in preference to any waiting readers.
func (rw *RWMutex) Unlock() error {
	_ = rw.mu.Lock()
	rw.writer = false
	_ = rw.writersOK.Signal()
	_ = rw.readersOK.Broadcast()
	return rw.mu.Unlock()
}
