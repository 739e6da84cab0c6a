package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	authCookie = "auth"
	signCookie = "sign"
)

// SessionClaims binds a client to the game session it created.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewSessionClaims(sessionID string, lifetime time.Duration) *SessionClaims {
	now := time.Now()
	return &SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
}

// Cookies carries a session token split in two: the readable header and
// payload in "auth", the signature in the http-only "sign".
type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode, nil
	case "LAX":
		return http.SameSiteLaxMode, nil
	case "", "STRICT":
		return http.SameSiteStrictMode, nil
	case "NONE":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("invalid COOKIES_SAMESITE value %q", s)
}

func NewCookies(opts CookieOptions, j *JWT) (*Cookies, error) {
	sameSite, err := parseSameSite(opts.SameSite)
	if err != nil {
		return nil, err
	}
	cookies := &Cookies{
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		SameSite: sameSite,
		jwt:      j,
	}
	return cookies, nil
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Path:     "/",
		Value:    "delete",
		MaxAge:   -1,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     signCookie,
		Path:     "/",
		Value:    "delete",
		MaxAge:   -1,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

func (c *Cookies) Refresh(w http.ResponseWriter, token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}
	header, payload, signature := parts[0], parts[1], parts[2]
	expires := time.Now().Add(c.jwt.tokenLifetime)
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Path:     "/",
		Value:    header + "." + payload,
		Expires:  expires,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     signCookie,
		Path:     "/",
		Value:    signature,
		Expires:  expires,
		HttpOnly: true,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	return nil
}

// Issue signs a token for sessionID and sets the session cookies.
func (c *Cookies) Issue(w http.ResponseWriter, sessionID string) error {
	token, err := c.jwt.Sign(NewSessionClaims(sessionID, c.jwt.tokenLifetime))
	if err != nil {
		return fmt.Errorf("unable to sign session token: %w", err)
	}
	return c.Refresh(w, token)
}

func (c *Cookies) ParseSessionClaims(r *http.Request) (*SessionClaims, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	token, err := c.jwt.ParseWithClaims(
		auth.Value+"."+sign.Value, &SessionClaims{},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
