package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/metrics"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/store"
)

type GameHandler struct {
	logger   *slog.Logger
	store    *store.Store
	cookies  *config.Cookies
	ws       *config.WebSocket
	defaults mines.Params
	tick     time.Duration
	wsLimit  rate.Limit
	wsBurst  int
}

type GameHandlerOptions struct {
	Defaults     mines.Params
	TickInterval time.Duration
	// per-connection websocket command budget
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewGameHandler(
	logger *slog.Logger,
	st *store.Store,
	cookies *config.Cookies,
	ws *config.WebSocket,
	opts GameHandlerOptions,
) *GameHandler {
	handler := &GameHandler{
		logger:   logger,
		store:    st,
		cookies:  cookies,
		ws:       ws,
		defaults: opts.Defaults,
		tick:     opts.TickInterval,
		wsLimit:  rate.Limit(opts.RateLimitRPS),
		wsBurst:  opts.RateLimitBurst,
	}
	if handler.tick <= 0 {
		handler.tick = time.Second
	}
	if handler.wsLimit <= 0 {
		handler.wsLimit = rate.Inf
	}
	return handler
}

func (g GameHandler) Presets(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, g.logger, NewPresetDTOs())
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateGameDTO(r.URL.Query())
	if err != nil {
		sendErrorStatus(w, g.logger, http.StatusBadRequest, err)
		return
	}
	params, err := dto.Params(g.defaults)
	if err != nil {
		sendErrorStatus(w, g.logger, http.StatusBadRequest, err)
		return
	}

	entry, err := g.store.Create(params)
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	if err := g.cookies.Issue(w, entry.ID); err != nil {
		g.store.Delete(entry.ID)
		sendError(w, g.logger, err)
		return
	}
	metrics.GamesStarted.WithLabelValues(params.PresetName()).Inc()
	g.logger.Debug(
		"created session",
		slog.String("id", entry.ID),
		slog.String("board", params.Seed()),
	)

	g.respond(w, entry, func(s *game.Session) (*mines.Outcome, error) {
		return nil, nil
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	entry, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	g.respond(w, entry, func(s *game.Session) (*mines.Outcome, error) {
		return nil, nil
	})
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		sendErrorStatus(w, g.logger, http.StatusBadRequest, err)
		return
	}
	move, err := ParseMove(dto.Move)
	if err != nil {
		sendErrorStatus(w, g.logger, http.StatusBadRequest, err)
		return
	}

	entry, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	g.respond(w, entry, func(s *game.Session) (*mines.Outcome, error) {
		return applyMove(s, move, dto.X, dto.Y)
	})
}

func (g GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	entry, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	g.respond(w, entry, func(s *game.Session) (*mines.Outcome, error) {
		s.NewGame()
		metrics.GamesStarted.WithLabelValues(s.Params().PresetName()).Inc()
		return nil, nil
	})
}

func (g GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	entry, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	g.respond(w, entry, func(s *game.Session) (*mines.Outcome, error) {
		if err := s.Restart(); err != nil {
			return nil, err
		}
		metrics.GamesStarted.WithLabelValues(s.Params().PresetName()).Inc()
		return nil, nil
	})
}

func (g GameHandler) Configure(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseConfigureDTO(r.URL.Query())
	if err != nil {
		sendErrorStatus(w, g.logger, http.StatusBadRequest, err)
		return
	}
	entry, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	g.respond(w, entry, func(s *game.Session) (*mines.Outcome, error) {
		if err := s.Configure(dto.Columns, dto.Rows, dto.Mines); err != nil {
			return nil, err
		}
		metrics.GamesStarted.WithLabelValues(s.Params().PresetName()).Inc()
		return nil, nil
	})
}

// Forfeit drops the session and its cookies.
func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !g.store.Delete(id) {
		sendError(w, g.logger, store.ErrNotFound)
		return
	}
	g.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// respond runs fn on the entry's session and sends the resulting state.
func (g GameHandler) respond(
	w http.ResponseWriter,
	entry *store.Entry,
	fn func(s *game.Session) (*mines.Outcome, error),
) {
	var dto *GameDTO
	err := entry.Do(func(s *game.Session) error {
		out, err := fn(s)
		if err != nil {
			return err
		}
		dto = NewGameDTO(entry.ID, s, entry.Timer().Seconds())
		if out != nil {
			dto.Outcome = NewOutcomeDTO(*out)
		}
		return nil
	})
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func applyMove(s *game.Session, move Move, x, y int) (*mines.Outcome, error) {
	var (
		out mines.Outcome
		err error
	)
	switch move {
	case Open:
		out, err = s.Reveal(x, y)
	case Flag:
		out, err = s.Flag(x, y)
	}
	if err != nil {
		return nil, err
	}
	metrics.Moves.WithLabelValues(move.String(), out.Result.String()).Inc()
	return &out, nil
}
