package statechart

import "fmt"

// DuplicateStateError is returned when a state id is registered twice.
type DuplicateStateError[S comparable] struct {
	State S
}

func (e *DuplicateStateError[S]) Error() string {
	return fmt.Sprintf("statechart: state %v is already registered", e.State)
}

// UnknownParentError is returned when a registered state names a parent
// that was never registered.
type UnknownParentError[S comparable] struct {
	State  S
	Parent S
}

func (e *UnknownParentError[S]) Error() string {
	return fmt.Sprintf("statechart: state %v declares unknown parent %v", e.State, e.Parent)
}

// UnknownStateError is returned when an id does not resolve to a
// registered descriptor.
type UnknownStateError[S comparable] struct {
	State S
}

func (e *UnknownStateError[S]) Error() string {
	return fmt.Sprintf("statechart: state %v is not registered", e.State)
}

// CycleDetectedError is returned when a state's parent chain loops back
// on itself.
type CycleDetectedError[S comparable] struct {
	State S
}

func (e *CycleDetectedError[S]) Error() string {
	return fmt.Sprintf("statechart: cycle detected while resolving ancestors of %v", e.State)
}

// AlreadyStartedError is returned by a second call to Machine.SetStart.
type AlreadyStartedError struct{}

func (e *AlreadyStartedError) Error() string {
	return "statechart: machine has already been started"
}

// NotStartedError is returned by operations that require a started,
// non-terminated machine.
type NotStartedError struct{}

func (e *NotStartedError) Error() string {
	return "statechart: machine has not been started"
}

// EntryError wraps a factory failure encountered while entering a state.
// Any states already entered as part of the same entry suffix are
// unwound, leaf-first, before this error is returned.
type EntryError[S comparable] struct {
	State S
	Err   error
}

func (e *EntryError[S]) Error() string {
	return fmt.Sprintf("statechart: entering state %v failed: %v", e.State, e.Err)
}

func (e *EntryError[S]) Unwrap() error {
	return e.Err
}
