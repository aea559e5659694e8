package resume

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NotifyKind 区分通知的类别。
type NotifyKind string

const (
	NotifyError   NotifyKind = "error"
	NotifySuccess NotifyKind = "success"
)

// Notifier 是面向用户的通知汇（toast 等），由宿主应用实现。
type Notifier interface {
	Notify(kind NotifyKind, message string)
}

// LogNotifier 将通知写入 zap 日志，作为未接入前端时的默认汇。
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by a zap logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.With(zap.String("component", "notifier"))}
}

func (n *LogNotifier) Notify(kind NotifyKind, message string) {
	switch kind {
	case NotifyError:
		n.logger.Error(message)
	default:
		n.logger.Info(message)
	}
}

// ThrottledNotifier 对内层通知汇限速，丢弃超速的重复提示，
// 避免重试风暴刷屏。成功通知不限速。
type ThrottledNotifier struct {
	inner   Notifier
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewThrottledNotifier wraps inner, allowing at most burst error notices
// and refilling one per interval.
func NewThrottledNotifier(inner Notifier, limit rate.Limit, burst int, logger *zap.Logger) *ThrottledNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThrottledNotifier{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With(zap.String("component", "throttled_notifier")),
	}
}

func (n *ThrottledNotifier) Notify(kind NotifyKind, message string) {
	if kind == NotifyError && !n.limiter.Allow() {
		n.logger.Debug("dropping throttled error notice", zap.String("message", message))
		return
	}
	n.inner.Notify(kind, message)
}
