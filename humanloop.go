// Package humanloop provides a top-level convenience entry point for
// handling a paused agent run's interrupt with minimal boilerplate.
//
// Usage:
//
//	loop, err := humanloop.Open(descriptor, runner)
//	loop.SetArg("city", "LA")
//	err = loop.Submit(ctx)
//
// The heavy lifting lives in the interrupt and resume packages; use them
// directly when you need finer control over session or client lifecycle.
package humanloop

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/humanloop/internal/metrics"
	"github.com/BaSui01/humanloop/interrupt"
	"github.com/BaSui01/humanloop/resume"
	"github.com/BaSui01/humanloop/store"
)

// Loop ties one open interrupt session to a resume client.
type Loop struct {
	session   *interrupt.Session
	client    *resume.Client
	sessions  store.SessionStore
	collector *metrics.Collector
	logger    *zap.Logger
}

// Option configures the loop created by [Open].
type Option func(*options)

type options struct {
	logger    *zap.Logger
	notifier  resume.Notifier
	recorder  resume.DecisionRecorder
	sessions  store.SessionStore
	collector *metrics.Collector
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithNotifier sets the user-facing notification sink.
func WithNotifier(n resume.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithRecorder sets the decision audit sink.
func WithRecorder(r resume.DecisionRecorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithSessionStore persists session snapshots after every mutation so a
// reconnecting front end can pick up an in-progress decision.
func WithSessionStore(s store.SessionStore) Option {
	return func(o *options) { o.sessions = s }
}

// WithCollector sets the metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(o *options) { o.collector = c }
}

// Open resolves the descriptor into a session and wires a resume client
// around runner. A descriptor with no legal response kinds still opens;
// CanSubmit then stays false.
func Open(d interrupt.Descriptor, runner resume.Runner, opts ...Option) (*Loop, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	sess := interrupt.NewSession(d, o.logger)

	clientOpts := []resume.Option{resume.WithLogger(o.logger)}
	if o.notifier != nil {
		clientOpts = append(clientOpts, resume.WithNotifier(o.notifier))
	}
	if o.recorder != nil {
		clientOpts = append(clientOpts, resume.WithRecorder(o.recorder))
	}
	if o.collector != nil {
		clientOpts = append(clientOpts, resume.WithCollector(o.collector))
	}

	l := &Loop{
		session:   sess,
		client:    resume.NewClient(runner, clientOpts...),
		sessions:  o.sessions,
		collector: o.collector,
		logger:    o.logger,
	}

	if err := l.persist(context.Background()); err != nil {
		return nil, err
	}
	l.collector.InterruptOpened()
	return l, nil
}

// Reopen re-hydrates a previously persisted session from the store.
func Reopen(ctx context.Context, sessions store.SessionStore, id string, runner resume.Runner, opts ...Option) (*Loop, error) {
	snap, err := sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	clientOpts := []resume.Option{resume.WithLogger(o.logger)}
	if o.notifier != nil {
		clientOpts = append(clientOpts, resume.WithNotifier(o.notifier))
	}
	if o.recorder != nil {
		clientOpts = append(clientOpts, resume.WithRecorder(o.recorder))
	}
	if o.collector != nil {
		clientOpts = append(clientOpts, resume.WithCollector(o.collector))
	}

	l := &Loop{
		session:   interrupt.RestoreSession(snap, o.logger),
		client:    resume.NewClient(runner, clientOpts...),
		sessions:  sessions,
		collector: o.collector,
		logger:    o.logger,
	}
	// A reopened session counts as open again so the close on submit
	// balances out.
	l.collector.InterruptOpened()
	return l, nil
}

// Session exposes the underlying interrupt session.
func (l *Loop) Session() *interrupt.Session { return l.session }

// Client exposes the underlying resume client.
func (l *Loop) Client() *resume.Client { return l.client }

// SetArg merges a single argument edit and persists the session.
func (l *Loop) SetArg(key string, value any) error {
	if err := l.session.SetArg(key, value); err != nil {
		return err
	}
	return l.persist(context.Background())
}

// SetArgs merges a batched argument edit and persists the session.
func (l *Loop) SetArgs(keys []string, values []any) error {
	if err := l.session.SetArgs(keys, values); err != nil {
		return err
	}
	return l.persist(context.Background())
}

// SetResponseText updates the free-text response and persists the session.
func (l *Loop) SetResponseText(text string) error {
	if err := l.session.SetResponseText(text); err != nil {
		return err
	}
	return l.persist(context.Background())
}

// Select records an explicit submit-type choice and persists the session.
func (l *Loop) Select(k interrupt.Kind) error {
	if err := l.session.Select(k); err != nil {
		return err
	}
	return l.persist(context.Background())
}

// ResetEdits restores the original argument values and persists the session.
func (l *Loop) ResetEdits() error {
	if err := l.session.ResetEdits(); err != nil {
		return err
	}
	return l.persist(context.Background())
}

// Submit sends the assembled response. On success the interrupt is closed
// and its persisted snapshot removed; on failure all session state is
// preserved for a retry.
func (l *Loop) Submit(ctx context.Context) error {
	if err := l.client.Submit(ctx, l.session); err != nil {
		return err
	}
	l.close(ctx)
	return nil
}

func (l *Loop) persist(ctx context.Context) error {
	if l.sessions == nil {
		return nil
	}
	return l.sessions.Save(ctx, l.session.Snapshot())
}

func (l *Loop) close(ctx context.Context) {
	l.collector.InterruptClosed()
	if l.sessions == nil {
		return
	}
	if err := l.sessions.Delete(ctx, l.session.ID()); err != nil {
		l.logger.Warn("failed to delete session snapshot", zap.Error(err))
	}
}
