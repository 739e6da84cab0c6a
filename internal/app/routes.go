package app

import (
	"net/http"

	"github.com/vancomm/minesweeper/internal/handlers"
	"github.com/vancomm/minesweeper/internal/metrics"
	"github.com/vancomm/minesweeper/internal/middleware"
)

func (a *App) handle(pattern string, h http.HandlerFunc, mws ...middleware.Middleware) {
	a.router.Handle(pattern, middleware.Wrap(h, mws...))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.store, a.cookies, a.ws,
		handlers.GameHandlerOptions{
			Defaults:       a.cfg.Preset(),
			TickInterval:   a.cfg.TickInterval,
			RateLimitRPS:   a.cfg.RateLimitRPS,
			RateLimitBurst: a.cfg.RateLimitBurst,
		},
	)

	limit := middleware.RateLimit(a.logger, a.limiter)
	auth := middleware.Auth(a.logger, a.cookies)

	a.handle("GET /presets", game.Presets, limit)
	a.handle("POST /game", game.NewGame, limit)
	a.handle("GET /game/{id}", game.Fetch, auth, limit)
	a.handle("DELETE /game/{id}", game.Forfeit, auth, limit)
	a.handle("POST /game/{id}/move", game.MakeAMove, auth, limit)
	a.handle("POST /game/{id}/new", game.Reset, auth, limit)
	a.handle("POST /game/{id}/restart", game.Restart, auth, limit)
	a.handle("POST /game/{id}/configure", game.Configure, auth, limit)
	a.handle("GET /game/{id}/connect", game.ConnectWS, auth, limit)
	a.router.Handle("GET /metrics", metrics.Handler())
}
