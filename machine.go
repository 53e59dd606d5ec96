package statechart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// LabelFunc maps a StateId to a human-readable label for diagnostics. The
// Registrar stores it in each Descriptor's Label and Machine.Label exposes
// it; the framework's error messages format ids with %v and do not use it.
type LabelFunc[S comparable] func(id S) string

// Registrar is the only way to populate a Machine's Registry. It is
// handed to the setup routine passed to New. It is not sealed when that
// routine returns; a state registered through a retained Registrar
// afterwards is not validated.
type Registrar[S comparable, E any, F any] struct {
	registry *registry[S, E, F]
	label    LabelFunc[S]
}

// Register records id's descriptor. parent is optional; supplying more
// than one value is a programming error and returns a descriptive error
// rather than registering anything.
func (r *Registrar[S, E, F]) Register(id S, factory Factory[S, E, F], parent ...S) error {
	if len(parent) > 1 {
		return fmt.Errorf("statechart: state %v registered with %d parents, at most one is allowed", id, len(parent))
	}
	var p *S
	if len(parent) == 1 {
		p = &parent[0]
	}
	label := ""
	if r.label != nil {
		label = r.label(id)
	}
	return r.registry.register(id, p, factory, label)
}

// Machine is the user-visible HFSM facade. It registers states at
// construction, accepts a start-state identifier, exposes Post and
// CurrentLeafID, and owns the Active Chain and the pending-event queue.
type Machine[S comparable, E any, F any] struct {
	id       string
	registry *registry[S, E, F]
	label    LabelFunc[S]
	chain    activeChain[S, E]
	data     F
	observer *observerManager[S]

	pending     []E
	dispatching bool

	startConsumed bool
	started       bool

	pendingTo    S
	hasPendingTo bool

	lastErr error
}

// New builds a Machine. setup is invoked once with a Registrar on which
// the caller registers every state; the registry is validated once, when
// setup returns. UnknownParentError and CycleDetectedError are returned
// from here, with a nil Machine. Errors returned by Register itself (such
// as DuplicateStateError) reach only the setup routine: New does not see
// them, and the first registration of a duplicated id stays in effect.
func New[S comparable, E any, F any](label LabelFunc[S], setup func(*Registrar[S, E, F])) (*Machine[S, E, F], error) {
	reg := newRegistry[S, E, F]()
	setup(&Registrar[S, E, F]{registry: reg, label: label})

	if err := reg.validate(); err != nil {
		return nil, err
	}

	return &Machine[S, E, F]{
		id:       uuid.New().String(),
		registry: reg,
		label:    label,
		observer: newObserverManager[S](),
	}, nil
}

// AddObserver registers o to receive enter/exit/transition/error
// notifications.
func (m *Machine[S, E, F]) AddObserver(o Observer[S]) {
	m.observer.add(o)
}

// RemoveObserver stops o from receiving further notifications.
func (m *Machine[S, E, F]) RemoveObserver(o Observer[S]) {
	m.observer.remove(o)
}

// Data returns a pointer to the machine's user-supplied FSM data record,
// for callers that need access outside of a state's own Args handle.
func (m *Machine[S, E, F]) Data() *F {
	return &m.data
}

// Label formats id with the LabelFunc supplied to New. Returns the empty
// string if no LabelFunc was supplied. The framework's error messages do
// not use it; they format ids with %v.
func (m *Machine[S, E, F]) Label(id S) string {
	if m.label == nil {
		return ""
	}
	return m.label(id)
}

// LastError returns the most recently surfaced entry or planning error,
// or nil if none has occurred. Post returns no error, and neither Post
// nor SetStart returns errors from the transitions applied while they
// drain the queue (spec §6's external interface), so this is the
// supported way to inspect what an ErrorObserver was also told about.
func (m *Machine[S, E, F]) LastError() error {
	return m.lastErr
}

// SetStart is an exactly-once operation. It constructs the full ancestor
// chain of id, root-first, using the registered factories. A transition
// requested by one of those factories is applied once the chain is built,
// before any queued events are dispatched. A second call
// always fails with AlreadyStartedError, even if the first call itself
// failed.
func (m *Machine[S, E, F]) SetStart(id S) error {
	if m.startConsumed {
		return &AlreadyStartedError{}
	}
	m.startConsumed = true

	path, err := m.registry.ancestors(id)
	if err != nil {
		return err
	}

	ctx := withTraceID(context.Background())
	m.dispatching = true
	err = m.enterPath(ctx, path)
	m.dispatching = false
	if err != nil {
		m.lastErr = err
		m.observer.notifyError(ctx, err)
		return err
	}

	m.started = true
	m.dispatching = true
	for m.hasPendingTo {
		to := m.pendingTo
		m.hasPendingTo = false
		m.applyTransition(to)
	}
	m.dispatching = false
	m.drain()
	return nil
}

// CurrentLeafID returns the identifier of the deepest state on the
// Active Chain. It fails with NotStartedError before SetStart succeeds
// or after Close.
func (m *Machine[S, E, F]) CurrentLeafID() (S, error) {
	var zero S
	if !m.started {
		return zero, &NotStartedError{}
	}
	id, ok := m.chain.leafId()
	if !ok {
		return zero, &NotStartedError{}
	}
	return id, nil
}

// Close destroys every state on the Active Chain in reverse-entry order,
// running each instance's OnExit. After Close, CurrentLeafID again fails
// with NotStartedError.
func (m *Machine[S, E, F]) Close() {
	ctx := withTraceID(context.Background())
	for {
		entry, ok := m.chain.popLeaf()
		if !ok {
			break
		}
		entry.instance.OnExit()
		m.observer.notifyExit(ctx, entry.id)
	}
	m.started = false
}

// requestTransition validates to eagerly and, if valid, records it as
// the pending target for the transition currently being assembled. The
// last call before the enclosing handler or factory returns wins.
func (m *Machine[S, E, F]) requestTransition(to S) error {
	if _, err := m.registry.descriptor(to); err != nil {
		return err
	}
	m.pendingTo = to
	m.hasPendingTo = true
	return nil
}

// enterPath constructs each identifier in path, root-first, pushing it
// onto the Active Chain. If a factory fails, every instance entered so
// far within this call is unwound leaf-first before the error is
// returned, per spec §5/§7.
func (m *Machine[S, E, F]) enterPath(ctx context.Context, path []S) error {
	entered := 0
	for _, id := range path {
		desc, err := m.registry.descriptor(id)
		if err != nil {
			m.unwind(ctx, entered)
			return err
		}
		args := &Args[S, E, F]{machine: m}
		instance, err := desc.Factory(args)
		if err != nil {
			m.unwind(ctx, entered)
			return &EntryError[S]{State: id, Err: err}
		}
		m.chain.push(id, instance)
		entered++
		m.observer.notifyEnter(ctx, id)
	}
	return nil
}

// unwind pops and exits the n most-recently pushed entries, leaf-first.
func (m *Machine[S, E, F]) unwind(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		entry, ok := m.chain.popLeaf()
		if !ok {
			break
		}
		entry.instance.OnExit()
		m.observer.notifyExit(ctx, entry.id)
	}
}
