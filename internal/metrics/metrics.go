package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GamesScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladder_games_scored_total",
		Help: "Games scored and recorded, by outcome",
	}, []string{"outcome"})

	ScoringFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladder_scoring_failures_total",
		Help: "Games that could not be scored or recorded, by reason",
	}, []string{"reason"})

	AlertsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladder_alerts_emitted_total",
		Help: "Alerts attached to recorded games, by kind",
	}, []string{"kind"})

	DuoPoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ladder_duo_points",
		Help:    "Distribution of per-game duo point deltas",
		Buckets: prometheus.LinearBuckets(-70, 10, 20),
	})

	RiotRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladder_riot_api_requests_total",
		Help: "Requests sent to the Riot API, by HTTP status",
	}, []string{"status"})
)

const (
	OutcomeWin    = "win"
	OutcomeLoss   = "loss"
	OutcomeRemake = "remake"
)

func Outcome(win, remakeOrEarly bool) string {
	switch {
	case remakeOrEarly:
		return OutcomeRemake
	case win:
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}
