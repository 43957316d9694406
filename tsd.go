package pthread

import (
	"sync/atomic"

	"github.com/jiuzhuaxiong/pthreads-go/internal/host"
)

// DestructorIterationCap bounds how many times the thread-exit sweep will
// re-run over a thread's thread-specific-data keys to converge destructors
// that re-set their own key. POSIX mandates at least 4; this matches that
// floor.
const DestructorIterationCap = 4

// maxKeys is a soft implementation limit mirroring a native host's finite
// TLS-slot count. Go has no such hard limit, but NewKey still enforces
// one so callers that depend on ErrAgain firing eventually (e.g. a leak
// test) behave as documented.
const maxKeys = 1 << 20

var liveKeyCount atomic.Int64

// Key is a thread-specific-data key: a process-wide identifier for a
// per-thread value slot, with an optional destructor run at thread exit.
type Key struct {
	destructor func(any)
	slot       *host.TLSSlot

	mu          host.Section // guards threadsHead
	threadsHead *assoc
	valid       atomic.Bool
}

// assoc is one thread↔key association node, referenced from both the
// thread's and the key's singly linked lists. Destruction is logically
// gated on both back-references
// being null; this port relies on the garbage collector for the actual
// reclamation once nothing references the node any longer; see
// DESIGN.md for why that is a faithful simplification of "destroy the
// node" on a host with automatic memory management.
type assoc struct {
	mu     host.Section
	thread *Thread
	key    *Key

	nextByThread *assoc
	nextByKey    *assoc
}

// NewKey allocates a new thread-specific-data key. destructor may be nil.
// It fails with ErrAgain if the implementation's key limit is exceeded.
func NewKey(destructor func(any)) (*Key, error) {
	if liveKeyCount.Add(1) > maxKeys {
		liveKeyCount.Add(-1)
		return nil, ErrAgain
	}
	k := &Key{destructor: destructor, slot: host.AllocTLSSlot()}
	k.valid.Store(true)
	return k, nil
}

// findAssoc searches t's association list for one referencing k, without
// taking any lock: only t itself ever mutates t.keyAssocHead's structure.
func findAssoc(t *Thread, k *Key) *assoc {
	for a := t.keyAssocHead; a != nil; a = a.nextByThread {
		if a.key == k {
			return a
		}
	}
	return nil
}

// spliceAssoc creates a new association between t and k, and splices it
// at the head of both lists: youngest-first, so that any internal
// self-reference association installed ahead of user keys remains last
// and is destroyed last.
func spliceAssoc(t *Thread, k *Key) *assoc {
	a := &assoc{thread: t, key: k}

	a.nextByThread = t.keyAssocHead
	t.keyAssocHead = a

	k.mu.Enter()
	a.nextByKey = k.threadsHead
	k.threadsHead = a
	k.mu.Leave()

	return a
}

// Set stores value as the calling thread's value for k, creating the
// thread↔key association if this is the first Set for this key on this
// thread.
func (k *Key) Set(value any) error {
	if !k.valid.Load() {
		return ErrInvalid
	}
	t := current()
	if t != nil {
		if a := findAssoc(t, k); a == nil {
			spliceAssoc(t, k)
		}
	}
	k.slot.Set(value)
	return nil
}

// Get returns the calling thread's value for k, or nil if unset.
func (k *Key) Get() any {
	if !k.valid.Load() {
		return nil
	}
	return k.slot.Get()
}

// Delete invalidates k. Outstanding associations are unhooked from k (the
// key back-reference is nulled under each node's lock) so a racing
// thread-exit destructor sweep can never observe a freed destructor
// pointer; the thread-side list is left untouched, since only the owning
// thread may restructure it.
func (k *Key) Delete() error {
	if !k.valid.CompareAndSwap(true, false) {
		return ErrInvalid
	}

	k.mu.Enter()
	node := k.threadsHead
	k.threadsHead = nil
	k.mu.Leave()

	for node != nil {
		next := node.nextByKey
		node.mu.Enter()
		node.key = nil
		node.mu.Leave()
		node = next
	}

	liveKeyCount.Add(-1)
	return nil
}

// threadExitDestructorSweep runs every associated key's destructor for
// the given thread, converging re-sets up to DestructorIterationCap
// passes.
func threadExitDestructorSweep(t *Thread) {
	for pass := 0; pass < DestructorIterationCap; pass++ {
		invokedAny := false

		node := t.keyAssocHead
		t.keyAssocHead = nil

		for node != nil {
			next := node.nextByThread

			node.mu.Enter()
			k := node.key
			if k != nil {
				if val := k.slot.Get(); val != nil && k.destructor != nil {
					k.slot.Set(nil)
					invokedAny = true
					destructor := k.destructor
					func() {
						defer func() {
							if r := recover(); r != nil {
								logf(LevelError, "tsd destructor panicked", map[string]any{"recover": r})
							}
						}()
						destructor(val)
					}()
				}
			}
			node.thread = nil
			node.mu.Leave()

			node = next
		}

		if !invokedAny {
			break
		}
	}
}
