// Package metrics exposes Prometheus counters for the shell's session lifecycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "intakedesk"

// Refresh outcomes.
const (
	RefreshSucceeded = "succeeded"
	RefreshFailed    = "failed"
	RefreshSkipped   = "skipped"
)

// Session transitions.
const (
	TransitionRestored = "restored"
	TransitionLogin    = "login"
	TransitionLogout   = "logout"
	TransitionCorrupt  = "corrupt"
	TransitionRejected = "rejected"
)

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the metrics gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ShellMetrics holds the shell's counters.
type ShellMetrics struct {
	Refreshes      *prometheus.CounterVec
	GuardDecisions *prometheus.CounterVec
	Transitions    *prometheus.CounterVec
	ActiveTimers   prometheus.Gauge
}

// NewShellMetrics creates and registers shell metrics on reg.
func NewShellMetrics(reg prometheus.Registerer) *ShellMetrics {
	m := &ShellMetrics{
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "refreshes_total",
			Help:      "Token refresh ticks, by outcome.",
		}, []string{"outcome"}),
		GuardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions, by route and kind.",
		}, []string{"route", "kind"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Session state transitions, by event.",
		}, []string{"event"}),
		ActiveTimers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "refresh_timers_active",
			Help:      "Refresh timers currently running.",
		}),
	}

	reg.MustRegister(m.Refreshes, m.GuardDecisions, m.Transitions, m.ActiveTimers)
	return m
}

// Refresh counts one refresh tick.
func (m *ShellMetrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome).Inc()
}

// Decision counts one guard decision. Unnamed routes are reported as "fallback".
func (m *ShellMetrics) Decision(route, kind string) {
	if m == nil {
		return
	}
	if route == "" {
		route = "fallback"
	}
	m.GuardDecisions.WithLabelValues(route, kind).Inc()
}

// Transition counts one session event.
func (m *ShellMetrics) Transition(event string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(event).Inc()
}

// SetActiveTimers records the number of running refresh timers.
func (m *ShellMetrics) SetActiveTimers(n int) {
	if m == nil {
		return
	}
	m.ActiveTimers.Set(float64(n))
}
