package services

import (
	"github.com/prometheus/client_golang/prometheus"

	"ktpPortalAPI/internal/leetcode"
)

var (
	leetcodeSyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetcode_sync_runs_total",
			Help: "Total number of LeetCode sync runs",
		},
		[]string{"trigger"},
	)
	leetcodeUsersUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leetcode_users_updated_total",
			Help: "Total number of per-user stat updates written",
		},
	)
	leetcodeFetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leetcode_fetch_failures_total",
			Help: "Total number of stats fetches that exhausted their retries",
		},
	)
)

// InitMetrics registers the sync metrics. Call this from main.go
func InitMetrics() {
	prometheus.MustRegister(leetcodeSyncRuns)
	prometheus.MustRegister(leetcodeUsersUpdated)
	prometheus.MustRegister(leetcodeFetchFailures)
}

// RecordRunMetrics counts a completed run against its trigger source.
func RecordRunMetrics(trigger string, summary *leetcode.RunSummary) {
	if summary == nil {
		return
	}
	leetcodeSyncRuns.WithLabelValues(trigger).Inc()
	leetcodeUsersUpdated.Add(float64(summary.Updated))
}
