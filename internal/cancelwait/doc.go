// Package cancelwait implements the one operation every blocking pthread
// primitive is built from: a wait on a host waitable that remains
// interruptible by the calling thread's cancellation event.
package cancelwait
