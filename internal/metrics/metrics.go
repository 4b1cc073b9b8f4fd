// Package metrics exposes the Prometheus collectors of the game service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry replaces the private registry the collectors are registered on.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns the service collectors. A nil *Manager records nothing.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	rounds              *prometheus.CounterVec
	sessions            *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	achievements        *prometheus.CounterVec
	activePlays         prometheus.Gauge
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "brainbuzz",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.rounds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rounds_total",
		Help:      "Resolved quiz rounds by game and outcome.",
	}, []string{"game", "outcome"})
	m.sessions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_finished_total",
		Help:      "Finished game sessions by game.",
	}, []string{"game"})
	m.persistenceFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "persistence_failures_total",
		Help:      "Failed writes when recording a finished session, by store.",
	}, []string{"store"})
	m.achievements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "achievements_unlocked_total",
		Help:      "Achievements unlocked by id.",
	}, []string{"id"})
	m.activePlays = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "active_plays",
		Help:      "Game sessions currently in progress.",
	})
	return m
}

// RoundResolved counts a round; outcome is correct, wrong or timeout.
func (m *Manager) RoundResolved(game, outcome string) {
	if m == nil {
		return
	}
	m.rounds.WithLabelValues(game, outcome).Inc()
}

func (m *Manager) SessionFinished(game string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(game).Inc()
}

func (m *Manager) PersistenceFailed(store string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(store).Inc()
}

func (m *Manager) AchievementUnlocked(id string) {
	if m == nil {
		return
	}
	m.achievements.WithLabelValues(id).Inc()
}

func (m *Manager) PlayStarted() {
	if m == nil {
		return
	}
	m.activePlays.Inc()
}

func (m *Manager) PlayEnded() {
	if m == nil {
		return
	}
	m.activePlays.Dec()
}

// Registry returns the registry backing the collectors.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
