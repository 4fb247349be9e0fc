package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session Metrics
var (
	// SessionsStarted tracks focus sessions that reached the active state
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "focusguard_sessions_started_total",
			Help: "Total focus sessions started",
		},
	)

	// SessionsEnded tracks finished sessions by end reason (manual/expired/stale)
	SessionsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusguard_sessions_ended_total",
			Help: "Total focus sessions ended by reason",
		},
		[]string{"reason"},
	)

	// SessionActive is 1 while a session is counting down
	SessionActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "focusguard_session_active",
			Help: "Whether a focus session is currently active (0 or 1)",
		},
	)

	// SessionRemainingSeconds tracks the countdown of the active session
	SessionRemainingSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "focusguard_session_remaining_seconds",
			Help: "Remaining seconds of the active focus session",
		},
	)
)

// Automation Metrics
var (
	// AutomationCalls tracks focus mode automation calls by operation and outcome
	AutomationCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusguard_automation_calls_total",
			Help: "Total focus mode automation calls by operation (enable/disable) and outcome (applied/skipped/error)",
		},
		[]string{"operation", "outcome"},
	)

	// AutomationDuration tracks automation call latency in seconds
	AutomationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "focusguard_automation_duration_seconds",
			Help:    "Focus mode automation call duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)
)

// Notification Metrics
var (
	// SourceFailures tracks unreadable host notification log fetches by kind (missing/busy/query)
	SourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusguard_source_failures_total",
			Help: "Total failed reads of the host notification log by kind",
		},
		[]string{"kind"},
	)

	// NotificationsTriaged tracks queued notifications by the rule that classified them
	NotificationsTriaged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "focusguard_notifications_triaged_total",
			Help: "Total notifications triaged by rule (whitelist/keyword/repetition/none)",
		},
		[]string{"rule"},
	)
)
