package host

// ThreadHandle is the host-level handle returned by CreateThread: a
// waitable that is signaled when the goroutine running entry returns.
type ThreadHandle struct {
	done *Event
	id   uint64
}

// Handle returns the waitable event signaled on thread exit, suitable for
// passing to Event.Wait or SelectWait.
func (h *ThreadHandle) Handle() *Event { return h.done }

// ID returns the host-assigned goroutine ID the thread ran on. This is
// purely diagnostic: unlike a real kernel thread ID, it is only stable
// for the lifetime of the goroutine, and exists so log lines can
// correlate with runtime stack dumps.
func (h *ThreadHandle) ID() uint64 { return h.id }

// CreateThread runs entry on a newly spawned goroutine and returns a
// handle that becomes signaled when entry returns. stackSizeHint is
// accepted for API fidelity with a real host's CreateThread(stackSize)
// parameter; Go goroutine stacks grow on demand, so the hint is not
// acted on here, only recorded as a documented non-functional parameter.
func CreateThread(entry func(), stackSizeHint int) (*ThreadHandle, error) {
	_ = stackSizeHint
	h := &ThreadHandle{done: NewManualResetEvent(false)}
	idCh := make(chan uint64, 1)
	go func() {
		idCh <- GoroutineID()
		defer h.done.Set()
		entry()
	}()
	h.id = <-idCh
	return h, nil
}
