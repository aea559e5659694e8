package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/humanloop/interrupt"
)

// EventType 标识运行恢复后服务端下发的事件类型。
type EventType string

const (
	EventRunStarted   EventType = "run_started"
	EventMessageDelta EventType = "message_delta"
	EventRunFinished  EventType = "run_finished"
	EventRunError     EventType = "run_error"
)

// RunEvent 是恢复流中的单个事件帧。
type RunEvent struct {
	Type    EventType       `json:"type"`
	RunID   string          `json:"run_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// resumeFrame 是发往服务端的恢复指令帧，
// 形如 {"command":{"resume":[{type,args}...]}}。
type resumeFrame struct {
	Command resumeCommand `json:"command"`
}

type resumeCommand struct {
	Resume []interrupt.Entry `json:"resume"`
}

// WSRunner 通过 WebSocket 实现 resume.Runner：写出恢复帧后
// 读取事件帧直到 run_finished 或 run_error，并以心跳探测连接。
// 写操作不并发，单次 Resume 内只有读循环与心跳两个 goroutine。
type WSRunner struct {
	url          string
	logger       *zap.Logger
	onEvent      func(RunEvent)
	pingInterval time.Duration
}

// WSOption configures a WSRunner.
type WSOption func(*WSRunner)

// WithLogger sets the runner logger.
func WithLogger(logger *zap.Logger) WSOption {
	return func(r *WSRunner) { r.logger = logger }
}

// WithOnEvent registers a callback invoked for every received event,
// including the terminal one. The callback runs on the read goroutine
// and must not block.
func WithOnEvent(fn func(RunEvent)) WSOption {
	return func(r *WSRunner) { r.onEvent = fn }
}

// WithPingInterval overrides the heartbeat interval.
func WithPingInterval(d time.Duration) WSOption {
	return func(r *WSRunner) { r.pingInterval = d }
}

// NewWSRunner creates a runner for the given WebSocket URL
// (e.g. "ws://localhost:8080/runs/resume").
func NewWSRunner(url string, opts ...WSOption) *WSRunner {
	r := &WSRunner{
		url:          url,
		pingInterval: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.logger = r.logger.With(zap.String("component", "ws_runner"))
	return r
}

// Resume sends the payload and blocks until the resumed run reaches a
// terminal event. Cancellation comes from ctx only; the runner adds no
// cancellation of its own.
func (r *WSRunner) Resume(ctx context.Context, payload []interrupt.Entry) error {
	conn, _, err := websocket.Dial(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	data, err := json.Marshal(resumeFrame{Command: resumeCommand{Resume: payload}})
	if err != nil {
		return fmt.Errorf("marshal resume frame: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return r.readEvents(gctx, conn)
	})

	g.Go(func() error {
		ticker := time.NewTicker(r.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := conn.Ping(gctx); err != nil {
					if gctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("websocket ping: %w", err)
				}
			}
		}
	})

	return g.Wait()
}

// readEvents consumes event frames until a terminal event arrives.
func (r *WSRunner) readEvents(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("websocket read: %w", err)
		}

		var ev RunEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("unmarshal event: %w", err)
		}

		r.logger.Debug("run event",
			zap.String("type", string(ev.Type)),
			zap.String("run_id", ev.RunID),
		)
		if r.onEvent != nil {
			r.onEvent(ev)
		}

		switch ev.Type {
		case EventRunFinished:
			return nil
		case EventRunError:
			return fmt.Errorf("run error: %s", ev.Message)
		}
	}
}
