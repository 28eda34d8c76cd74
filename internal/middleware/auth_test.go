package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeypas/portfolio-final/internal/model"
	"github.com/codeypas/portfolio-final/internal/utils"
)

var testCookie = utils.NewSessionCookie(false, time.Hour)

func newAuthContext(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: utils.AccessTokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireHTTPError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "want *echo.HTTPError, got %v", err)
	assert.Equal(t, code, he.Code)
	assert.Equal(t, msg, he.Message)
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func TestAuthenticate_NoCookie(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	c, _ := newAuthContext(t, "")

	err := Authenticate(issuer, testCookie)(okHandler)(c)
	requireHTTPError(t, err, http.StatusUnauthorized, MsgNoToken)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	forged, err := utils.NewTokenIssuer("other", time.Hour).Issue("u-1", model.RoleAdmin)
	require.NoError(t, err)

	for name, tok := range map[string]string{"garbage": "abc.def.ghi", "wrong secret": forged.Token} {
		t.Run(name, func(t *testing.T) {
			c, _ := newAuthContext(t, tok)
			err := Authenticate(issuer, testCookie)(okHandler)(c)
			requireHTTPError(t, err, http.StatusForbidden, MsgInvalidToken)
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	tok, err := issuer.WithClock(func() time.Time { return past }).Issue("u-1", model.RoleUser)
	require.NoError(t, err)

	c, _ := newAuthContext(t, tok.Token)
	err = Authenticate(issuer, testCookie)(okHandler)(c)
	requireHTTPError(t, err, http.StatusForbidden, MsgInvalidToken)
}

func TestAuthenticate_AttachesIdentity(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	tok, err := issuer.Issue("u-1", model.RoleUser)
	require.NoError(t, err)

	var got model.Identity
	c, rec := newAuthContext(t, tok.Token)
	err = Authenticate(issuer, testCookie)(func(c echo.Context) error {
		var ok bool
		got, ok = IdentityFrom(c)
		require.True(t, ok)
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, model.Identity{SubjectID: "u-1", Role: model.RoleUser}, got)
}

func TestRequireAdmin(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	chain := func(h echo.HandlerFunc) echo.HandlerFunc {
		return Authenticate(issuer, testCookie)(RequireAdmin()(h))
	}

	userTok, err := issuer.Issue("u-1", model.RoleUser)
	require.NoError(t, err)
	c, _ := newAuthContext(t, userTok.Token)
	requireHTTPError(t, chain(okHandler)(c), http.StatusForbidden, MsgAdminRequired)

	adminTok, err := issuer.Issue("u-2", model.RoleAdmin)
	require.NoError(t, err)
	c, rec := newAuthContext(t, adminTok.Token)
	require.NoError(t, chain(okHandler)(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireRole_WithoutGateOne(t *testing.T) {
	c, _ := newAuthContext(t, "")
	err := RequireRole(model.RoleAdmin)(okHandler)(c)
	requireHTTPError(t, err, http.StatusForbidden, MsgAdminRequired)
}

func TestCurrentUserID(t *testing.T) {
	c, _ := newAuthContext(t, "")
	assert.Equal(t, "anon", currentUserID(c))

	req := c.Request()
	c.SetRequest(req.WithContext(WithIdentity(req.Context(), model.Identity{SubjectID: "u-9", Role: model.RoleUser})))
	assert.Equal(t, "u-9", currentUserID(c))
}
