package statechart

import "context"

// Post appends ev to the pending-event queue. If the machine is idle,
// Post drains the queue before returning: handlers and entry effects run
// synchronously on the caller's goroutine. If Post is called from inside
// a handler or factory that is itself running as part of a drain, ev is
// simply queued and picked up by the outer drain loop once the current
// event finishes — this is what lets a factory safely call Post/
// RequestTransition on the same Args it was constructed with.
func (m *Machine[S, E, F]) Post(ev E) {
	m.pending = append(m.pending, ev)
	if m.dispatching || !m.started {
		return
	}
	m.drain()
}

// drain repeatedly pops the oldest pending event and dispatches it,
// applying any transition the dispatch requests, until the queue is
// empty. The dispatching flag serializes this against reentrant Post
// calls made from within a handler or factory.
func (m *Machine[S, E, F]) drain() {
	m.dispatching = true
	defer func() { m.dispatching = false }()

	for len(m.pending) > 0 {
		ev := m.pending[0]
		m.pending = m.pending[1:]
		m.dispatchOne(ev)
	}
}

// dispatchOne walks the Active Chain leaf-to-root, offering ev to each
// instance's Event method until one reports it consumed or the root is
// reached unconsumed. A handler that calls RequestTransition halts
// further delivery of ev up the chain and, once the walk returns,
// triggers applyTransition; constructor-chained follow-up transitions
// (a newly entered state's factory requesting another transition) are
// then applied in turn until none remains.
func (m *Machine[S, E, F]) dispatchOne(ev E) {
	m.hasPendingTo = false

	snapshot := m.chain.snapshot()
	for i := len(snapshot) - 1; i >= 0; i-- {
		if snapshot[i].instance.Event(ev) {
			break
		}
		if m.hasPendingTo {
			break
		}
	}

	for m.hasPendingTo {
		to := m.pendingTo
		m.hasPendingTo = false
		m.applyTransition(to)
	}
}

// applyTransition executes one planned transition: it exits the current
// leaf-ward suffix in reverse-entry order, then enters the new suffix
// root-first. A failed entry unwinds, leaf-first, the states entered so
// far in the new suffix (via enterPath's own unwinding); the states exited
// for this transition are not re-entered. The EntryError goes to the
// error observers and LastError rather than propagating out of
// Post/SetStart.
func (m *Machine[S, E, F]) applyTransition(to S) {
	ctx := withTraceID(context.Background())

	from, ok := m.chain.leafId()
	if !ok {
		return
	}

	exitCount, enterSuffix, err := plan[S](m.registry.ancestors, from, to)
	if err != nil {
		m.lastErr = err
		m.observer.notifyError(ctx, err)
		return
	}

	for i := 0; i < exitCount; i++ {
		entry, ok := m.chain.popLeaf()
		if !ok {
			break
		}
		entry.instance.OnExit()
		m.observer.notifyExit(ctx, entry.id)
	}

	if err := m.enterPath(ctx, enterSuffix); err != nil {
		m.lastErr = err
		m.observer.notifyError(ctx, err)
		return
	}

	m.observer.notifyTransition(ctx, from, to)
}
