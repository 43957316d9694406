// Package host is the runtime's single facade over the primitives a real
// POSIX thread implementation would get from the operating system: thread
// creation, timed waits on a waitable handle, manual/auto-reset events,
// counting semaphores, critical sections, thread-local storage slots, and
// an atomic exchange on a machine word.
//
// On this host, the operating system is the Go runtime itself: a "kernel
// thread" is a goroutine, a "wait object" is a channel, a "critical
// section" is a [sync.Mutex], and a "TLS slot" is a row in a
// goroutine-ID-indexed table. The rest of the module takes its events,
// semaphores, critical sections, TLS slots and thread creation from this
// facade; the pthread package still uses sync/atomic directly for its own
// lock words, counters and lifecycle states, and runtime for GOMAXPROCS
// and Gosched.
package host
