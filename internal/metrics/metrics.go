package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"hunter-quiz-service/internal/domain"
)

const namespace = "hunter_quiz"

// Metrics holds the quiz collectors. It implements app.Observer.
type Metrics struct {
	SessionsActive   prometheus.Gauge
	SessionsStarted  prometheus.Counter
	SessionsFinished prometheus.Counter
	Answers          *prometheus.CounterVec
	FinalScore       prometheus.Histogram
	LeaderboardSize  prometheus.Gauge
	Connections      prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of sessions currently held in the arena",
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of quiz attempts started",
		}),
		SessionsFinished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Total number of quiz attempts finished",
		}),
		Answers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers scored, by result",
		}, []string{"result"}),
		FinalScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Final score of finished attempts",
			Buckets:   prometheus.LinearBuckets(0, 1, 6),
		}),
		LeaderboardSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leaderboard_entries",
			Help:      "Number of entries on the leaderboard",
		}),
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Open websocket connections",
		}),
	}
}

func (m *Metrics) SessionCreated() { m.SessionsActive.Inc() }
func (m *Metrics) SessionClosed()  { m.SessionsActive.Dec() }
func (m *Metrics) SessionStarted() { m.SessionsStarted.Inc() }

func (m *Metrics) AnswerScored(correct bool) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	m.Answers.WithLabelValues(result).Inc()
}

func (m *Metrics) SessionFinished(p domain.Participant, leaderboardSize int) {
	m.SessionsFinished.Inc()
	m.FinalScore.Observe(float64(p.FinalScore))
	m.LeaderboardSize.Set(float64(leaderboardSize))
}

// ConnectionOpened and ConnectionClosed track websocket clients.
func (m *Metrics) ConnectionOpened() { m.Connections.Inc() }
func (m *Metrics) ConnectionClosed() { m.Connections.Dec() }
