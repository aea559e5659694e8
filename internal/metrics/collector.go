// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 汇集中断与恢复提交相关的 Prometheus 指标。
type Collector struct {
	// 提交指标
	submissionsTotal *prometheus.CounterVec
	resumeDuration   *prometheus.HistogramVec

	// 中断指标
	openInterrupts prometheus.Gauge

	logger *zap.Logger
}

// NewCollector 在给定注册表上创建收集器。reg 为 nil 时使用默认注册表。
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// 提交指标
	c.submissionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Total number of interrupt response submissions",
		},
		[]string{"type", "outcome"}, // outcome: ok, failed
	)

	c.resumeDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resume_duration_seconds",
			Help:      "Duration of run resume calls in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"type"},
	)

	// 中断指标
	c.openInterrupts = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_interrupts",
			Help:      "Number of currently open interrupts",
		},
	)

	return c
}

// ObserveSubmission 记录一次提交及其耗时。
func (c *Collector) ObserveSubmission(submitType, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.submissionsTotal.WithLabelValues(submitType, outcome).Inc()
	c.resumeDuration.WithLabelValues(submitType).Observe(duration.Seconds())
}

// InterruptOpened 增加开放中断计数。
func (c *Collector) InterruptOpened() {
	if c == nil {
		return
	}
	c.openInterrupts.Inc()
}

// InterruptClosed 减少开放中断计数。
func (c *Collector) InterruptClosed() {
	if c == nil {
		return
	}
	c.openInterrupts.Dec()
}
