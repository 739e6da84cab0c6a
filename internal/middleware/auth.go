package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper/internal/config"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

func SessionClaims(ctx context.Context) (*config.SessionClaims, bool) {
	claims, ok := ctx.Value(CtxSessionClaims).(*config.SessionClaims)
	return claims, ok
}

// Auth only lets through requests whose session cookies name the session
// in the {id} path segment.
func Auth(log *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseSessionClaims(r)
			if err != nil {
				log.Debug("rejected session token", slog.Any("error", err))
				cookies.Clear(w)
				writeError(w, http.StatusUnauthorized, "no valid session token")
				return
			}
			if id := r.PathValue("id"); id != "" && id != claims.SessionID {
				log.Debug(
					"session token for another game",
					slog.String("path", id),
					slog.String("token", claims.SessionID),
				)
				writeError(w, http.StatusForbidden, "session belongs to another client")
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
