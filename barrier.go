package pthread

// Barrier is a generation-counted rendezvous point for a fixed number of
// threads: the (n)th arrival of each generation releases all n waiters
// and opens the next generation, so the barrier can be reused
// indefinitely.
type Barrier struct {
	mu         *Mutex
	cond       *Cond
	parties    int
	waiting    int
	generation uint64
}

// NewBarrier creates a barrier for parties threads. parties must be at
// least 1.
func NewBarrier(parties int) (*Barrier, error) {
	if parties < 1 {
		return nil, ErrInvalid
	}
	mu, err := NewMutex()
	if err != nil {
		return nil, err
	}
	return &Barrier{mu: mu, cond: NewCond(), parties: parties}, nil
}

// Wait blocks until parties threads have called Wait on this generation.
// Exactly one of those calls — chosen arbitrarily — returns true,
// analogous to PTHREAD_BARRIER_SERIAL_THREAD; the rest return false. Once
// released, the barrier is immediately reusable for its next generation.
//
// Wait is a cancellation point, with the same hazard as RWMutex.RLock:
// Cond.Wait relocks b.mu before a cancellation panic unwinds, so the
// wait loop runs under a deferred cleanup that releases b.mu (and
// retires this arrival) as the panic propagates, rather than leaving
// b.mu locked forever.
func (b *Barrier) Wait() (bool, error) {
	_ = b.mu.Lock()
	gen := b.generation
	b.waiting++
	released := false
	defer func() {
		if !released {
			b.waiting--
			_ = b.mu.Unlock()
		}
	}()

	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		_ = b.cond.Broadcast()
		released = true
		_ = b.mu.Unlock()
		return true, nil
	}

	for gen == b.generation {
		if err := b.cond.Wait(b.mu); err != nil {
			return false, err
		}
	}
	released = true
	_ = b.mu.Unlock()
	return false, nil
}
