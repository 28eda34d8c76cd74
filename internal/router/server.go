package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/codeypas/portfolio-final/internal/config"
	"github.com/codeypas/portfolio-final/internal/handler"
	"github.com/codeypas/portfolio-final/internal/middleware"
	"github.com/codeypas/portfolio-final/internal/repository"
	"github.com/codeypas/portfolio-final/internal/service"
	"github.com/codeypas/portfolio-final/internal/utils"
)

// Options carries everything New wires together.  Redis and Publisher may
// be nil.
type Options struct {
	Config    config.Config
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Stores    *repository.Stores
	Redis     *redis.Client
	Publisher service.QueuePublisher
	Tokens    *utils.TokenIssuer // optional; built from Config when nil
}

// New builds the echo instance with the global middleware stack and every
// route registered.
func New(opts Options) *echo.Echo {
	cfg := opts.Config
	tokens := opts.Tokens
	if tokens == nil {
		tokens = utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	}
	pub := opts.Publisher
	if pub == nil {
		pub = service.NoopPublisher{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.LogAttrs(context.Background(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("ip", v.RemoteIP),
			)
			return nil
		},
	}))
	e.Use(middleware.Metrics())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderAccept, echo.HeaderOrigin},
		AllowCredentials: true,
	}))

	cookie := utils.NewSessionCookie(cfg.Production(), tokens.TTL())
	authn := middleware.Authenticate(tokens, cookie)
	limiter := middleware.NewTokenBucket(opts.RateLimit, opts.Redis)

	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, opts.Stores.Users, tokens), authn, limiter)
	RegisterContent(e, handler.NewContentHandler(opts.Stores, cfg.StoreTimeout, pub), ContentMiddleware{
		Authn:      authn,
		Admin:      middleware.RequireAdmin(),
		Limiter:    limiter,
		Cache:      middleware.NewRedisCache(opts.Cache, opts.Redis),
		Invalidate: middleware.NewCacheInvalidator(opts.Cache, opts.Redis),
	})
	return e
}
