// Package observability 暴露训练记录相关的 prometheus 指标。
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracktechfit",
		Subsystem: "workouts",
		Name:      "mutations_total",
		Help:      "Number of workout mutations by action (created, updated, completed, deleted).",
	}, []string{"action"})
	validationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracktechfit",
		Subsystem: "workouts",
		Name:      "validation_failures_total",
		Help:      "Number of rejected workout records by offending field.",
	}, []string{"field"})
	orphanCompletions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tracktechfit",
		Subsystem: "history",
		Name:      "orphan_completions",
		Help:      "Completion records whose workout was absent in the most recent reconciliation.",
	})
)

func init() {
	prometheus.MustRegister(workoutMutations, validationFailures, orphanCompletions)
}

// RecordMutation 累加一次训练变更
func RecordMutation(action string) {
	workoutMutations.WithLabelValues(action).Inc()
}

// RecordValidationFailure 按字段累加一次校验失败
func RecordValidationFailure(field string) {
	if field == "" {
		field = "unknown"
	}
	validationFailures.WithLabelValues(field).Inc()
}

// RecordOrphanCompletions 记录最近一次合并中找不到原训练的完成记录数量
func RecordOrphanCompletions(count int) {
	orphanCompletions.Set(float64(count))
}
