package statechart

// StateInstance is the runtime capability every state must provide: an
// event handler and an exit effect. The entry effect is the factory call
// that produces the instance; Go has no destructors, so OnExit is the
// explicit hook the framework calls right after it removes the instance
// from the Active Chain.
type StateInstance[E any] interface {
	// Event handles ev and reports whether it was consumed. A false
	// return lets the dispatcher continue delivering ev to the parent
	// state on the Active Chain.
	Event(ev E) (consumed bool)

	// OnExit releases any resources owned by this instance. It is called
	// exactly once, whether the instance leaves the chain via a
	// transition or via Machine.Close.
	OnExit()
}

// Factory constructs a fresh StateInstance for a state identifier when
// that identifier becomes part of the Active Chain's new path suffix.
// Constructing an instance is the entry effect; a non-nil error aborts
// the transition that triggered entry and unwinds whatever was entered
// ahead of it in the same suffix.
type Factory[S comparable, E any, F any] func(args *Args[S, E, F]) (StateInstance[E], error)

// Args is the value passed to each state factory. It gives the state a
// back-reference to the Machine's user data and a handle to request
// transitions and post events, without granting direct mutation of the
// Active Chain. A state typically stores its Args at construction time
// so it can use the same handle later from Event or OnExit.
type Args[S comparable, E any, F any] struct {
	machine *Machine[S, E, F]
}

// Data returns a pointer to the Machine's user-supplied FSM data record.
func (a *Args[S, E, F]) Data() *F {
	return &a.machine.data
}

// RequestTransition records a pending transition target. At most one
// request per event is honored — the last call before the current
// handler or factory returns wins. Fails with UnknownStateError if to
// is not registered; the in-flight event then continues as if no
// transition had been requested.
func (a *Args[S, E, F]) RequestTransition(to S) error {
	return a.machine.requestTransition(to)
}

// Post appends ev to the Machine's pending-event queue. If called while
// a dispatch or transition is already in progress, ev is simply queued
// and drained in FIFO order once the current activity settles.
func (a *Args[S, E, F]) Post(ev E) {
	a.machine.Post(ev)
}
