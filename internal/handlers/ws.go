package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vancomm/minesweeper/internal/game"
	"github.com/vancomm/minesweeper/internal/metrics"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/store"
)

const maxMessageSize = 4096

// wsConn serializes writes; gorilla allows one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

// ConnectWS upgrades to a websocket that takes one command per line and
// answers every message with the session state. While the game clock runs
// the elapsed time is pushed every tick.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	entry, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.logger, err)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	metrics.WSConnections.Inc()
	defer metrics.WSConnections.Dec()

	logger := g.logger.With(slog.String("id", entry.ID))
	logger.Debug("websocket connected")

	c := &wsConn{conn: conn}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		return g.readLoop(ctx, logger, c, entry)
	})
	eg.Go(func() error {
		err := entry.Timer().Run(ctx, g.tick, func(elapsed time.Duration) {
			if err := c.writeJSON(TickDTO{"tick", int(elapsed / time.Second)}); err != nil {
				logger.Debug("unable to send tick", slog.Any("error", err))
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		<-ctx.Done()
		// unblocks ReadMessage on server shutdown
		conn.Close()
		return nil
	})

	if err := eg.Wait(); err != nil {
		logger.Warn("websocket closed with error", slog.Any("error", err))
		return
	}
	logger.Debug("websocket disconnected")
}

func (g GameHandler) readLoop(
	ctx context.Context,
	logger *slog.Logger,
	c *wsConn,
	entry *store.Entry,
) error {
	limiter := rate.NewLimiter(g.wsLimit, g.wsBurst)
	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if mt != websocket.TextMessage {
			return errors.New("unsupported message type")
		}

		if !limiter.Allow() {
			metrics.RLBlocked.WithLabelValues("ws").Inc()
			if err := c.writeJSON(ErrorDTO{"error", "too many requests"}); err != nil {
				return err
			}
			continue
		}

		reply, err := g.runBatch(entry, string(message))
		if err != nil {
			level := slog.LevelDebug
			if statusFor(err) == http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "command failed", slog.Any("error", err))
			if werr := c.writeJSON(ErrorDTO{"error", err.Error()}); werr != nil {
				return werr
			}
		}
		if err := c.writeJSON(reply); err != nil {
			return err
		}
	}
}

// runBatch executes every line of text in order and returns the resulting
// state. The first failing command ends the batch.
func (g GameHandler) runBatch(entry *store.Entry, text string) (*GameDTO, error) {
	var (
		dto    *GameDTO
		last   *mines.Outcome
		cmdErr error
	)
	_ = entry.Do(func(s *game.Session) error {
		for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
			c, err := parseCommand(line)
			if err != nil {
				cmdErr = err
				break
			}
			out, err := executeCommand(s, c)
			if err != nil {
				cmdErr = err
				break
			}
			if out != nil {
				last = out
			}
		}
		dto = NewGameDTO(entry.ID, s, entry.Timer().Seconds())
		if last != nil {
			dto.Outcome = NewOutcomeDTO(*last)
		}
		return nil
	})
	return dto, cmdErr
}
