package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics хранит счетчики Prometheus для хранилища состояния.
// Методы безопасно вызывать на nil.
type Metrics struct {
	Answers          *prometheus.CounterVec
	FavoriteToggles  prometheus.Counter
	Unlocks          prometheus.Counter
	PersistFailures  *prometheus.CounterVec
	CorruptRecovered *prometheus.CounterVec
	Score            prometheus.Gauge
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wolfpedia",
				Subsystem: "quiz",
				Name:      "answers_total",
				Help:      "Submitted quiz answers by outcome",
			},
			[]string{"outcome"},
		),
		FavoriteToggles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wolfpedia",
			Subsystem: "favorites",
			Name:      "toggles_total",
			Help:      "Favorite toggles",
		}),
		Unlocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wolfpedia",
			Subsystem: "achievements",
			Name:      "unlocks_total",
			Help:      "Unlocked achievements",
		}),
		PersistFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wolfpedia",
				Subsystem: "storage",
				Name:      "write_failures_total",
				Help:      "Failed best-effort writes by key",
			},
			[]string{"key"},
		),
		CorruptRecovered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wolfpedia",
				Subsystem: "storage",
				Name:      "corrupt_recovered_total",
				Help:      "Corrupt persisted values replaced with defaults by key",
			},
			[]string{"key"},
		),
		Score: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "wolfpedia",
			Subsystem: "quiz",
			Name:      "score",
			Help:      "Score of the current quiz session",
		}),
	}
}

// Answer учитывает ответ с исходом outcome: correct, incorrect или rejected.
func (m *Metrics) Answer(outcome string) {
	if m == nil {
		return
	}
	m.Answers.WithLabelValues(outcome).Inc()
}

// SetScore обновляет текущий счет.
func (m *Metrics) SetScore(score int) {
	if m == nil {
		return
	}
	m.Score.Set(float64(score))
}

// FavoriteToggled учитывает переключение избранного.
func (m *Metrics) FavoriteToggled() {
	if m == nil {
		return
	}
	m.FavoriteToggles.Inc()
}

// Unlocked учитывает n открытых достижений.
func (m *Metrics) Unlocked(n int) {
	if m == nil {
		return
	}
	m.Unlocks.Add(float64(n))
}

// PersistFailed учитывает неудачную запись ключа.
func (m *Metrics) PersistFailed(key string) {
	if m == nil {
		return
	}
	m.PersistFailures.WithLabelValues(key).Inc()
}

// CorruptReplaced учитывает поврежденное значение, замененное значением по умолчанию.
func (m *Metrics) CorruptReplaced(key string) {
	if m == nil {
		return
	}
	m.CorruptRecovered.WithLabelValues(key).Inc()
}
