package pthread

// Once runs an initialization function exactly one time across however
// many threads race to call Do. If the thread currently running the
// function is cancelled partway through, the once is reopened so a later
// caller can retry, rather than leaving every future Do call blocked
// forever.
type Once struct {
	mu    *Mutex
	cond  *Cond
	state int // 0 idle, 1 running, 2 done
}

// NewOnce creates a ready-to-use Once.
func NewOnce() (*Once, error) {
	mu, err := NewMutex()
	if err != nil {
		return nil, err
	}
	return &Once{mu: mu, cond: NewCond()}, nil
}

// Do calls f if and only if this is the first call to Do on o to reach
// this point without being cancelled; every other caller blocks until
// that call completes (or, if it is cancelled, until some call finally
// completes f).
func (o *Once) Do(f func()) error {
	for {
		_ = o.mu.Lock()
		switch o.state {
		case 2:
			return o.mu.Unlock()
		case 1:
			// Cond.Wait relocks o.mu before a cancellation panic unwinds, so
			// this iteration's unlock must run via defer: otherwise a
			// cancelled waiter leaves o.mu locked forever and every other
			// Do call (including the one running f) deadlocks on it.
			waitErr := o.waitForRunningCall()
			if waitErr != nil {
				return waitErr
			}
		default:
			o.state = 1
			_ = o.mu.Unlock()
			o.runInit(f)
			_ = o.mu.Lock()
			o.state = 2
			_ = o.cond.Broadcast()
			return o.mu.Unlock()
		}
	}
}

// waitForRunningCall waits on o.cond for the in-progress Do call to
// finish, with o.mu held on entry. It always releases o.mu, including
// when a cancellation panic unwinds through it.
func (o *Once) waitForRunningCall() (err error) {
	defer func() { _ = o.mu.Unlock() }()
	return o.cond.Wait(o.mu)
}

func (o *Once) runInit(f func()) {
	defer func() {
		if r := recover(); r != nil {
			_ = o.mu.Lock()
			o.state = 0
			_ = o.cond.Broadcast()
			_ = o.mu.Unlock()
			panic(r)
		}
	}()
	f()
}
