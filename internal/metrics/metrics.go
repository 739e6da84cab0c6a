package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GamesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_games_started_total",
			Help: "Total games started, by preset",
		},
		[]string{"preset"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_games_finished_total",
			Help: "Total games that ended, by event",
		},
		[]string{"event"},
	)
	Moves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minesweeper_moves_total",
			Help: "Total moves applied, by move and result",
		},
		[]string{"move", "result"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "minesweeper_active_sessions",
			Help: "Sessions currently held in memory",
		},
	)
	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "minesweeper_websocket_connections",
			Help: "Open websocket connections",
		},
	)
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(
		GamesStarted,
		GamesFinished,
		Moves,
		ActiveSessions,
		WSConnections,
		RLRequests,
		RLBlocked,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
