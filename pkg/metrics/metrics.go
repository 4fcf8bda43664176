package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "duty"

// Metrics 业务与 HTTP 指标集合；nil 接收者上的方法均为空操作
type Metrics struct {
	scheduledItems      *prometheus.CounterVec
	completions         prometheus.Counter
	completionConflicts prometheus.Counter
	httpDuration        *prometheus.HistogramVec
}

// New 在 reg 上注册全部指标
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		scheduledItems: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_items_total",
			Help:      "排班批次中处理的条目数，按结果区分",
		}, []string{"result"}),
		completions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "成功标记完成的值班数",
		}),
		completionConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_conflicts_total",
			Help:      "重复完成被拒绝的次数",
		}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveSchedule 记录一次排班批次的结果
func (m *Metrics) ObserveSchedule(succeeded, failed int) {
	if m == nil {
		return
	}
	m.scheduledItems.WithLabelValues("ok").Add(float64(succeeded))
	m.scheduledItems.WithLabelValues("error").Add(float64(failed))
}

// IncCompleted 完成计数 +1
func (m *Metrics) IncCompleted() {
	if m == nil {
		return
	}
	m.completions.Inc()
}

// IncCompletionConflict 重复完成计数 +1
func (m *Metrics) IncCompletionConflict() {
	if m == nil {
		return
	}
	m.completionConflicts.Inc()
}

// ObserveHTTP 记录请求耗时
func (m *Metrics) ObserveHTTP(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(latency.Seconds())
}
