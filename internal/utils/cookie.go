package utils

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// AccessTokenCookie is the name of the session cookie.
const AccessTokenCookie = "access_token"

// SessionCookie carries the session token between client and server.
// Production deployments are cross-origin over HTTPS, so the cookie is
// Secure with SameSite=None there and Lax everywhere else.
type SessionCookie struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   int // seconds, matches the token TTL
}

func NewSessionCookie(production bool, ttl time.Duration) SessionCookie {
	sc := SessionCookie{SameSite: http.SameSiteLaxMode, MaxAge: int(ttl / time.Second)}
	if production {
		sc.Secure = true
		sc.SameSite = http.SameSiteNoneMode
	}
	return sc
}

// Attach sets the session cookie on the response.
func (s SessionCookie) Attach(c echo.Context, token string) {
	ck := s.base()
	ck.Value = token
	ck.MaxAge = s.MaxAge
	ck.Expires = time.Now().Add(time.Duration(s.MaxAge) * time.Second)
	c.SetCookie(ck)
}

// Detach expires the session cookie.  It is safe to call with no session.
func (s SessionCookie) Detach(c echo.Context) {
	ck := s.base()
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	c.SetCookie(ck)
}

// Read returns the raw token, or false when the cookie is absent or empty.
func (s SessionCookie) Read(c echo.Context) (string, bool) {
	ck, err := c.Cookie(AccessTokenCookie)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (s SessionCookie) base() *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenCookie,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	}
}
