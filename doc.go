// Package statechart provides a hierarchical finite-state-machine (HFSM)
// framework for Go.
//
// # Overview
//
// Applications declare a tree of states, attach construction/destruction
// side effects to each state, dispatch events down the active-state chain,
// and perform transitions that correctly unwind and re-enter the right
// sub-chain of states. The framework guarantees root-to-leaf entry order,
// leaf-to-root exit order, least-common-ancestor-based transition planning,
// safe dispatch while a state is executing, and deterministic release of
// per-state resources on exit.
//
// # Usage
//
//	type StateId int
//
//	const (
//		StateIdle StateId = iota
//		StateRunning
//	)
//
//	type FsmData struct { Ticks int }
//
//	type Event struct { Name string }
//
//	m, err := statechart.New[StateId, Event, FsmData](
//		func(id StateId) string { return [...]string{"idle", "running"}[id] },
//		func(r *statechart.Registrar[StateId, Event, FsmData]) {
//			r.Register(StateIdle, newIdleState)
//			r.Register(StateRunning, newRunningState, StateIdle)
//		},
//	)
//	if err != nil {
//		panic(err)
//	}
//	if err := m.SetStart(StateIdle); err != nil {
//		panic(err)
//	}
//	m.Post(Event{Name: "go"})
//	leaf, _ := m.CurrentLeafID()
//
// # Design Philosophy: State vs. Data
//
// A State is the *behavior* of the system: an immutable registration
// (identifier, optional parent, and a factory). Data is the *information*
// the behaviors act upon — a single user-defined record reachable from
// every state through its [Args] handle, with lifetime equal to the
// Machine itself rather than any one state's time on the chain.
package statechart
