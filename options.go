package pthread

// DetachState is a thread's detach state: whether a successful Join is
// expected (Joinable) or the thread's resources are reclaimed
// automatically on exit (Detached).
type DetachState int

const (
	Joinable DetachState = iota
	Detached
)

// CancelState controls whether a thread's pending cancellation requests
// can take effect.
type CancelState int

const (
	CancelEnable CancelState = iota
	CancelDisable
)

// CancelType controls whether cancellation is deferred to the next
// cancellation point, or (best-effort) delivered asynchronously.
type CancelType int

const (
	CancelDeferred CancelType = iota
	CancelAsynchronous
)

// MutexKind selects a mutex's locking discipline.
type MutexKind int

const (
	// MutexDefault behaves as MutexNormal on this runtime.
	MutexDefault MutexKind = iota
	MutexNormal
	MutexErrorcheck
	MutexRecursive
)

// SchedPolicy names a POSIX scheduling policy. Only SchedOther is
// honored; the realtime policies are reserved interface, not
// implemented behavior (spec.md §1 Non-goals: "realtime scheduling
// policy ... reserves their interfaces but the core need not implement
// them").
type SchedPolicy int

const (
	SchedOther SchedPolicy = iota
	SchedFIFO
	SchedRR
)

// threadAttr holds the resolved configuration for Create, built up by
// ThreadOption values.
type threadAttr struct {
	stackSizeHint int
	detachState   DetachState
	priority      int
	stackAddr     uintptr
	stackAddrSet  bool
	schedPolicy   SchedPolicy
}

func defaultThreadAttr() threadAttr {
	return threadAttr{detachState: Joinable}
}

// ThreadOption configures a *Thread at creation time: an interface with
// an unexported apply method, so an invalid option can report an error
// instead of being silently accepted.
type ThreadOption interface {
	applyThread(*threadAttr) error
}

type threadOptionFunc func(*threadAttr) error

func (f threadOptionFunc) applyThread(a *threadAttr) error { return f(a) }

// WithStackSize sets the stack-size hint forwarded to the host's
// CreateThread. It is accepted for API fidelity; Go goroutine stacks
// grow on demand, so this does not bound anything.
func WithStackSize(bytes int) ThreadOption {
	return threadOptionFunc(func(a *threadAttr) error {
		if bytes < 0 {
			return ErrInvalid
		}
		a.stackSizeHint = bytes
		return nil
	})
}

// WithDetachState sets the initial detach state. Anything other than
// Joinable or Detached is rejected, rather than silently accepted.
func WithDetachState(state DetachState) ThreadOption {
	return threadOptionFunc(func(a *threadAttr) error {
		if state != Joinable && state != Detached {
			return ErrInvalid
		}
		a.detachState = state
		return nil
	})
}

// WithPriority records a scheduling priority hint. The runtime does not
// act on it (no priority inheritance/ceiling support), but it is
// retained on the descriptor for introspection.
func WithPriority(priority int) ThreadOption {
	return threadOptionFunc(func(a *threadAttr) error {
		a.priority = priority
		return nil
	})
}

// WithStackAddr always fails with ErrNotSupported. Stack-address control
// is out of scope: the contract is preserved even though the host could,
// in principle, honor it.
func WithStackAddr(addr uintptr) ThreadOption {
	return threadOptionFunc(func(a *threadAttr) error {
		a.stackAddr = addr
		a.stackAddrSet = true
		return ErrNotSupported
	})
}

// WithSchedPolicy records a realtime scheduling policy. SchedFIFO and
// SchedRR always fail with ErrNotSupported: this runtime has no realtime
// scheduler to hand the policy to, but the attribute slot is reserved so
// a caller porting realtime-scheduled pthread code gets a clear error
// instead of a silently-ignored setting. SchedOther is always accepted,
// since it is this runtime's only actual behavior.
func WithSchedPolicy(policy SchedPolicy) ThreadOption {
	return threadOptionFunc(func(a *threadAttr) error {
		a.schedPolicy = policy
		if policy != SchedOther {
			return ErrNotSupported
		}
		return nil
	})
}

// mutexAttr holds the resolved configuration for NewMutex.
type mutexAttr struct {
	kind     MutexKind
	protocol MutexProtocol
}

// MutexProtocol names a POSIX mutex priority protocol. Only
// ProtocolNone is implemented; ProtocolInherit/ProtocolProtect are
// reserved interface per spec.md §1 Non-goals ("priority
// inheritance/ceiling mutexes ... reserves their interfaces").
type MutexProtocol int

const (
	ProtocolNone MutexProtocol = iota
	ProtocolInherit
	ProtocolProtect
)

// WithMutexProtocol records a priority protocol. Anything other than
// ProtocolNone fails with ErrNotSupported: this runtime has no priority
// inheritance or ceiling support.
func WithMutexProtocol(protocol MutexProtocol) MutexOption {
	return mutexOptionFunc(func(a *mutexAttr) error {
		a.protocol = protocol
		if protocol != ProtocolNone {
			return ErrNotSupported
		}
		return nil
	})
}

// MutexOption configures a *Mutex at creation time.
type MutexOption interface {
	applyMutex(*mutexAttr) error
}

type mutexOptionFunc func(*mutexAttr) error

func (f mutexOptionFunc) applyMutex(a *mutexAttr) error { return f(a) }

// WithMutexKind selects the mutex's locking discipline.
func WithMutexKind(kind MutexKind) MutexOption {
	return mutexOptionFunc(func(a *mutexAttr) error {
		switch kind {
		case MutexDefault, MutexNormal, MutexErrorcheck, MutexRecursive:
			a.kind = kind
			return nil
		default:
			return ErrInvalid
		}
	})
}
