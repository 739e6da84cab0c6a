package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.HandlerFunc(ok), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRateLimit(t *testing.T) {
	l := NewRateLimiter(1, 2)
	h := Wrap(http.HandlerFunc(ok), RateLimit(discard, l))

	codes := make([]int, 0, 3)
	for range 3 {
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rr, r)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code, "other clients have their own bucket")
}

func TestRateLimiterPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(10, 10)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(time.Minute)
	l.Allow("b")
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, l.Prune(time.Minute))
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "b")
}

func newCookies(t *testing.T) *config.Cookies {
	t.Helper()
	j, err := config.NewJWT(config.JWTOptions{})
	require.NoError(t, err)
	cookies, err := config.NewCookies(config.CookieOptions{}, j)
	require.NoError(t, err)
	return cookies
}

func TestAuth(t *testing.T) {
	cookies := newCookies(t)

	var seen string
	mux := http.NewServeMux()
	mux.Handle("GET /game/{id}", Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := SessionClaims(r.Context())
			require.True(t, ok)
			seen = claims.SessionID
		}),
		Auth(discard, cookies),
	))

	issued := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(issued, "mine"))
	withCookies := func(path string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range issued.Result().Cookies() {
			r.AddCookie(c)
		}
		return r
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, withCookies("/game/mine"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "mine", seen)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, withCookies("/game/theirs"))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/game/mine", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"no valid session token"}`, rr.Body.String())
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), Logging(discard))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestCors(t *testing.T) {
	h := Wrap(http.HandlerFunc(ok), Cors("https://example.org"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://example.org")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	assert.Equal(t, "https://example.org", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
