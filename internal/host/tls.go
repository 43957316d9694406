package host

import (
	"runtime"
	"sync"
)

// GoroutineID returns an identifier for the calling goroutine, parsed out
// of the leading "goroutine N " of a stack trace — the same trick an
// event loop's isLoopThread/getGoroutineID helpers use to tell whether
// they're being called from their own loop goroutine; here it plays the
// role real TLS implementations get for free from the host: a stable
// per-execution-context identity with no argument threading required.
func GoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}

// TLSSlot is one thread-local-storage slot: a value addressed by the
// calling goroutine's identity rather than by an explicit handle.
type TLSSlot struct {
	mu     sync.RWMutex
	values map[uint64]any
}

// AllocTLSSlot allocates a new, empty TLS slot.
func AllocTLSSlot() *TLSSlot {
	return &TLSSlot{values: make(map[uint64]any)}
}

// Get returns the calling goroutine's value in this slot, or nil if unset.
func (s *TLSSlot) Get() any {
	id := GoroutineID()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[id]
}

// Set stores v as the calling goroutine's value in this slot. Setting nil
// removes the entry so the table doesn't grow unboundedly across the
// lifetime of short-lived goroutines that merely peeked at it.
func (s *TLSSlot) Set(v any) {
	id := GoroutineID()
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		delete(s.values, id)
		return
	}
	s.values[id] = v
}

// Free releases the calling goroutine's entry, if any. Unlike Set(nil),
// this is intended for use by whichever goroutine originally called Set,
// as part of its own teardown, and never on another goroutine's behalf.
func (s *TLSSlot) Free() {
	s.Set(nil)
}
