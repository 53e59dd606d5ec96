package statechart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Observer receives notifications of the Active Chain's lifecycle. Its
// methods are called synchronously from within Post/SetStart; an
// Observer must not itself call back into the Machine.
type Observer[S comparable] interface {
	// OnEnter is called once a state's entry effect has completed.
	OnEnter(ctx context.Context, id S)
	// OnExit is called once a state's exit effect (its OnExit) has run.
	OnExit(ctx context.Context, id S)
	// OnTransition is called once per applied transition, after its
	// exit and entry suffixes have both completed.
	OnTransition(ctx context.Context, from, to S)
}

// ErrorObserver is an optional extension for observers that want to know
// about entry failures and other surfaced errors.
type ErrorObserver interface {
	OnError(ctx context.Context, err error)
}

// observerManager fans a single notification out to every registered
// Observer, recovering from any panic an individual observer raises so
// that one misbehaving observer cannot corrupt machine operation.
type observerManager[S comparable] struct {
	observers []Observer[S]
}

func newObserverManager[S comparable]() *observerManager[S] {
	return &observerManager[S]{}
}

func (m *observerManager[S]) add(o Observer[S]) {
	m.observers = append(m.observers, o)
}

func (m *observerManager[S]) remove(o Observer[S]) {
	for i, existing := range m.observers {
		if existing == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

func (m *observerManager[S]) notifyEnter(ctx context.Context, id S) {
	for _, o := range m.observers {
		m.guard(ctx, func() { o.OnEnter(ctx, id) })
	}
}

func (m *observerManager[S]) notifyExit(ctx context.Context, id S) {
	for _, o := range m.observers {
		m.guard(ctx, func() { o.OnExit(ctx, id) })
	}
}

func (m *observerManager[S]) notifyTransition(ctx context.Context, from, to S) {
	for _, o := range m.observers {
		m.guard(ctx, func() { o.OnTransition(ctx, from, to) })
	}
}

func (m *observerManager[S]) notifyError(ctx context.Context, err error) {
	for _, o := range m.observers {
		if eo, ok := o.(ErrorObserver); ok {
			m.guard(ctx, func() { eo.OnError(ctx, err) })
		}
	}
}

// guard runs fn, recovering and discarding any panic raised by an
// observer so that the remaining observers are still notified.
func (m *observerManager[S]) guard(ctx context.Context, fn func()) {
	defer func() {
		recover()
	}()
	fn()
}

type traceIDKey struct{}

// withTraceID stamps ctx with a fresh correlation id for one dispatch
// round, so every enter/exit/transition log line it produces can be
// joined together.
func withTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceIDKey{}, uuid.New().String())
}

func traceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// LoggingObserver is a concrete Observer that writes structured log
// entries through logrus, labeling state ids with the user-supplied
// LabelFunc from spec §6's diagnostics contract.
type LoggingObserver[S comparable] struct {
	Logger *logrus.Logger
	Label  LabelFunc[S]
}

// NewLoggingObserver builds a LoggingObserver. A nil logger falls back to
// logrus.StandardLogger().
func NewLoggingObserver[S comparable](label LabelFunc[S], logger *logrus.Logger) *LoggingObserver[S] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoggingObserver[S]{Logger: logger, Label: label}
}

func (o *LoggingObserver[S]) label(id S) string {
	if o.Label != nil {
		return o.Label(id)
	}
	return fmt.Sprintf("%v", id)
}

func (o *LoggingObserver[S]) OnEnter(ctx context.Context, id S) {
	o.Logger.WithFields(logrus.Fields{
		"trace": traceID(ctx),
		"state": o.label(id),
	}).Debug("state entered")
}

func (o *LoggingObserver[S]) OnExit(ctx context.Context, id S) {
	o.Logger.WithFields(logrus.Fields{
		"trace": traceID(ctx),
		"state": o.label(id),
	}).Debug("state exited")
}

func (o *LoggingObserver[S]) OnTransition(ctx context.Context, from, to S) {
	o.Logger.WithFields(logrus.Fields{
		"trace": traceID(ctx),
		"from":  o.label(from),
		"to":    o.label(to),
	}).Info("transition applied")
}

func (o *LoggingObserver[S]) OnError(ctx context.Context, err error) {
	o.Logger.WithFields(logrus.Fields{
		"trace": traceID(ctx),
	}).WithError(err).Error("statechart error")
}
