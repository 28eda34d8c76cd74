package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codeypas/portfolio-final/internal/config"
	"github.com/codeypas/portfolio-final/internal/metrics"
	"github.com/codeypas/portfolio-final/internal/middleware"
	"github.com/codeypas/portfolio-final/internal/model"
	"github.com/codeypas/portfolio-final/internal/repository"
	"github.com/codeypas/portfolio-final/internal/utils"
)

// Auth flow messages.
const (
	MsgFieldsRequired   = "All fields are required"
	MsgUserExists       = "Username or email already exists"
	MsgUserNotFound     = "User not found"
	MsgInvalidPassword  = "Invalid password"
	MsgPasswordTooLong  = "Password is too long"
	MsgProfileFailed    = "Failed to fetch user profile"
	MsgSignoutSucceeded = "Signout successful"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users   repository.UserStore
	Hasher  utils.PasswordHasher
	Tokens  *utils.TokenIssuer
	Cookie  utils.SessionCookie
	Timeout time.Duration // bound for each store call
}

func NewAuthHandler(cfg config.Config, users repository.UserStore, tokens *utils.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		Users:   users,
		Hasher:  utils.NewPasswordHasher(cfg.BcryptCost),
		Tokens:  tokens,
		Cookie:  utils.NewSessionCookie(cfg.Production(), tokens.TTL()),
		Timeout: cfg.StoreTimeout,
	}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	User model.Profile `json:"user"`
}

// Signup creates a user with the default role and starts a session.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}
	if blank(req.Username) || blank(req.Email) || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, MsgFieldsRequired)
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return echo.NewHTTPError(http.StatusBadRequest, MsgPasswordTooLong)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal).SetInternal(err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	u := &model.User{Username: req.Username, Email: req.Email, PasswordHash: hash, Role: model.RoleUser}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordAuthEvent(metrics.EventSignupDuplicate)
			return echo.NewHTTPError(http.StatusConflict, MsgUserExists)
		}
		return storeError(err, "", MsgInternal)
	}

	if err := h.startSession(c, u); err != nil {
		return err
	}
	metrics.RecordAuthEvent(metrics.EventSignup)
	return c.JSON(http.StatusCreated, userResp{User: u.Public()})
}

// Signin verifies the password and starts a session.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidBody)
	}
	if blank(req.Email) || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, MsgFieldsRequired)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordAuthEvent(metrics.EventSigninFailed)
		}
		return storeError(err, MsgUserNotFound, MsgInternal)
	}
	if !h.Hasher.Verify(req.Password, u.PasswordHash) {
		metrics.RecordAuthEvent(metrics.EventSigninFailed)
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidPassword)
	}

	if err := h.startSession(c, u); err != nil {
		return err
	}
	metrics.RecordAuthEvent(metrics.EventSignin)
	return c.JSON(http.StatusOK, userResp{User: u.Public()})
}

// Profile returns the caller's record.  The token may outlive the record,
// in which case the answer is 404.
func (h *AuthHandler) Profile(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.MsgNoToken)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.SubjectID)
	if err != nil {
		return storeError(err, MsgUserNotFound, MsgProfileFailed)
	}
	return c.JSON(http.StatusOK, userResp{User: u.Public()})
}

// Signout clears the session cookie.  It succeeds with or without one.
func (h *AuthHandler) Signout(c echo.Context) error {
	h.Cookie.Detach(c)
	return c.JSON(http.StatusOK, MsgSignoutSucceeded)
}

func (h *AuthHandler) startSession(c echo.Context, u *model.User) error {
	tok, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, MsgInternal).SetInternal(err)
	}
	h.Cookie.Attach(c, tok.Token)
	return nil
}

// blank reports a missing or whitespace-only field.  Non-blank values are
// stored and matched exactly as sent, so existing records stay reachable.
func blank(s string) bool { return strings.TrimSpace(s) == "" }
