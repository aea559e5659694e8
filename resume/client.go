package resume

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/humanloop/internal/metrics"
	"github.com/BaSui01/humanloop/interrupt"
)

// ErrSubmitInFlight 表示同一中断已有一次恢复调用在途。
// 并发的第二次 Submit 立即拒绝，而不是依赖 UI 禁用。
var ErrSubmitInFlight = errors.New("a resume call is already in flight")

// State 是恢复客户端状态机的状态。
// 转移：Idle → Submitting → (Streaming → Finished) | Failed，
// 下一次交互回到 Idle。
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateStreaming  State = "streaming"
	StateFailed     State = "failed"
)

// Status 是渲染层用于控制控件可用性与进度指示的标志集合。
type Status struct {
	Loading        bool `json:"loading"`
	Streaming      bool `json:"streaming"`
	StreamFinished bool `json:"stream_finished"`
}

// Runner 是底层运行的恢复原语。失败即返回的任意非 nil 错误；
// 超时与取消由底层传输负责，经由同一错误路径流出。
type Runner interface {
	Resume(ctx context.Context, payload []interrupt.Entry) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, payload []interrupt.Entry) error

func (f RunnerFunc) Resume(ctx context.Context, payload []interrupt.Entry) error {
	return f(ctx, payload)
}

// Decision 是一次已尝试提交的审计记录。
type Decision struct {
	InterruptID string
	Action      string
	SubmitType  interrupt.Kind
	Args        any
	Outcome     string // "ok" or "failed"
	Err         string
	Latency     time.Duration
}

// DecisionRecorder 持久化提交审计记录，由 history 包实现。
type DecisionRecorder interface {
	Record(ctx context.Context, d Decision) error
}

// Client 驱动一次提交：组装载荷、调用 Runner 并维护状态机。
type Client struct {
	runner     Runner
	classifier Classifier
	notifier   Notifier
	recorder   DecisionRecorder
	collector  *metrics.Collector
	logger     *zap.Logger
	tracer     trace.Tracer

	mu     sync.Mutex
	state  State
	status Status
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithNotifier sets the user-facing notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithClassifier replaces the default substring classifier.
func WithClassifier(cl Classifier) Option {
	return func(c *Client) { c.classifier = cl }
}

// WithRecorder sets the decision audit sink.
func WithRecorder(r DecisionRecorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithCollector sets the metrics collector.
func WithCollector(col *metrics.Collector) Option {
	return func(c *Client) { c.collector = col }
}

// NewClient creates a resume client for the given runner.
func NewClient(runner Runner, opts ...Option) *Client {
	c := &Client{
		runner:     runner,
		classifier: SubstringClassifier{},
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("component", "resume_client"))
	if c.notifier == nil {
		c.notifier = NewLogNotifier(c.logger)
	}
	c.tracer = otel.Tracer("github.com/BaSui01/humanloop/resume")
	return c
}

// State returns the current state machine state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the current loading/streaming flags.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Submit assembles the session's resume payload and invokes the runner.
//
// Input errors (empty variant set, no entry matching the selected submit
// type) abort locally, notify the user and leave the state machine in
// Idle without a resume call. A second Submit while one is in flight
// returns ErrSubmitInFlight. Transport failures move the machine to
// Failed; descriptor and variant state are preserved so the user can
// retry by re-submitting.
func (c *Client) Submit(ctx context.Context, sess *interrupt.Session) error {
	if sess == nil {
		return interrupt.ErrNothingToSubmit
	}

	c.mu.Lock()
	if c.state == StateSubmitting || c.state == StateStreaming {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}

	payload, err := sess.BuildPayload()
	if err != nil {
		c.state = StateIdle
		c.status = Status{}
		c.mu.Unlock()
		c.logger.Warn("submission aborted", zap.Error(err))
		c.notifier.Notify(NotifyError, "No response found.")
		return err
	}

	entry := payload[0]
	// ignore-only submissions carry no token stream
	wantStream := entry.Type != interrupt.KindIgnore
	c.state = StateSubmitting
	if wantStream {
		c.state = StateStreaming
	}
	c.status = Status{Loading: true, Streaming: wantStream, StreamFinished: false}
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "humanloop.resume",
		trace.WithAttributes(
			attribute.String("interrupt.id", sess.ID()),
			attribute.String("submit.type", string(entry.Type)),
		),
	)
	defer span.End()

	start := time.Now()
	err = c.runner.Resume(ctx, payload)
	latency := time.Since(start)

	decision := Decision{
		InterruptID: sess.ID(),
		Action:      sess.Descriptor().ActionRequest.Action,
		SubmitType:  entry.Type,
		Args:        entry.Args,
		Latency:     latency,
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resume failed")

		c.mu.Lock()
		c.state = StateFailed
		c.status = Status{}
		c.mu.Unlock()

		category := c.classifier.Classify(err)
		c.logger.Error("resume call failed",
			zap.String("interrupt_id", sess.ID()),
			zap.String("submit_type", string(entry.Type)),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		c.notifier.Notify(NotifyError, Message(category))

		decision.Outcome = "failed"
		decision.Err = err.Error()
		c.record(ctx, decision)
		c.collector.ObserveSubmission(string(entry.Type), "failed", latency)
		return err
	}

	c.mu.Lock()
	c.state = StateIdle
	c.status = Status{StreamFinished: wantStream}
	c.mu.Unlock()

	c.logger.Info("run resumed",
		zap.String("interrupt_id", sess.ID()),
		zap.String("submit_type", string(entry.Type)),
		zap.Duration("latency", latency),
	)

	decision.Outcome = "ok"
	c.record(ctx, decision)
	c.collector.ObserveSubmission(string(entry.Type), "ok", latency)
	return nil
}

func (c *Client) record(ctx context.Context, d Decision) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(ctx, d); err != nil {
		c.logger.Warn("failed to record decision", zap.Error(err))
	}
}
