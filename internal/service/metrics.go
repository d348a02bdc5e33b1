package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus counters of the practice service
type Metrics struct {
	Answers         *prometheus.CounterVec
	SessionsStarted *prometheus.CounterVec
	RoundsCompleted *prometheus.CounterVec
	Milestones      prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glossify",
			Name:      "answers_total",
			Help:      "Answers submitted, by result.",
		}, []string{"result"}),
		SessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glossify",
			Name:      "sessions_started_total",
			Help:      "Practice sessions started, by list.",
		}, []string{"list"}),
		RoundsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glossify",
			Name:      "rounds_completed_total",
			Help:      "Practice rounds run to the end, by kind.",
		}, []string{"kind"}),
		Milestones: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "glossify",
			Name:      "streak_milestones_total",
			Help:      "Streak milestones reached.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "glossify",
			Name:      "active_sessions",
			Help:      "Practice sessions held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Answers, m.SessionsStarted, m.RoundsCompleted, m.Milestones, m.ActiveSessions)
	}
	return m
}

func (m *Metrics) observeAnswer(correct bool) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	m.Answers.WithLabelValues(result).Inc()
}

func (m *Metrics) observeRound(retry bool) {
	kind := "first"
	if retry {
		kind = "retry"
	}
	m.RoundsCompleted.WithLabelValues(kind).Inc()
}
