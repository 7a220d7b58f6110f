package ws

import (
	"github.com/prometheus/client_golang/prometheus"

	"seabattle_backend/internal/engine"
)

var (
	MatchesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matches_started_total",
		Help: "Matches that reached the started state",
	})
	MatchesFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matches_finished_total",
		Help: "Matches finished, by reason",
	}, []string{"reason"})
	ShotsFired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shots_fired_total",
		Help: "Resolved shots, by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(MatchesStarted)
	prometheus.MustRegister(MatchesFinished)
	prometheus.MustRegister(ShotsFired)
}

// countEvent feeds the counters from the engine's event stream.
func countEvent(event string, payload any) {
	switch event {
	case engine.EventStarted, engine.EventRematchStarted:
		MatchesStarted.Inc()
	case engine.EventShot:
		if out, ok := payload.(*engine.FireOutcome); ok {
			ShotsFired.WithLabelValues(string(out.Result)).Inc()
		}
	case engine.EventFinished:
		if fin, ok := payload.(engine.FinishedPayload); ok {
			MatchesFinished.WithLabelValues(fin.Reason).Inc()
		}
	}
}
