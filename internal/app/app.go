package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/metrics"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/store"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 30 * time.Second
)

type App struct {
	logger  *slog.Logger
	cfg     *config.App
	router  *http.ServeMux
	store   *store.Store
	cookies *config.Cookies
	ws      *config.WebSocket
	limiter *middleware.RateLimiter
}

func New(logger *slog.Logger, cfg *config.App) (*App, error) {
	jwt, err := config.NewJWT(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("unable to set up session tokens: %w", err)
	}
	cookies, err := config.NewCookies(cfg.Cookies, jwt)
	if err != nil {
		return nil, err
	}

	app := &App{
		logger:  logger,
		cfg:     cfg,
		router:  http.NewServeMux(),
		cookies: cookies,
		ws:      config.NewWebSocket(cfg.Development),
		limiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	app.store = store.New(
		store.WithTTL(cfg.SessionTTL),
		store.WithTimerLimit(cfg.TimerLimit),
		store.WithEventHook(app.gameFinished),
		store.WithSizeHook(func(n int) {
			metrics.ActiveSessions.Set(float64(n))
		}),
	)
	app.loadRoutes()
	return app, nil
}

func (a *App) gameFinished(id string, e game.Event) {
	metrics.GamesFinished.WithLabelValues(e.String()).Inc()
	store.Log.WithFields(logrus.Fields{
		"id":    id,
		"event": e.String(),
	}).Info("game finished")
}

// Handler is the full middleware-wrapped router.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if base := a.cfg.BasePath; base != "" {
		outer := http.NewServeMux()
		outer.Handle(base+"/", http.StripPrefix(base, a.router))
		h = outer
	}
	return middleware.Wrap(
		h,
		middleware.Cors(),
		middleware.Logging(a.logger),
	)
}

func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			// hijacked websocket connections outlive Shutdown otherwise
			return ctx
		},
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", a.cfg.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	eg.Go(func() error {
		return ignoreCanceled(a.store.Run(ctx, sweepInterval))
	})
	eg.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := a.limiter.Prune(a.cfg.SessionTTL); n > 0 {
					a.logger.Debug("forgot idle clients", slog.Int("count", n))
				}
			}
		}
	})

	return eg.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
