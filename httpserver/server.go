package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"moviecatalog/errs"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/sentry"
	"moviecatalog/poster"
	"net/http"
	"strings"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// bodyLimit caps every request body except poster uploads, which are
// bounded by uploadBodyLimit and answered with poster.ErrTooLarge.
const bodyLimit = "8M"

// uploadBodyLimit leaves room for multipart framing around a maximum size
// poster, so oversize files reach the size check instead of being cut off.
const uploadBodyLimit = 8 << 20

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// UploadDir is served statically under /uploads
	UploadDir string

	// RateLimit is requests per second per client IP, zero disables it
	RateLimit float64

	Metrics *Metrics

	MovieService movie.Service

	PosterService poster.Service
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: cfg.Origins(),
		UploadDir:    cfg.Upload.Dir,
		RateLimit:    cfg.RateLimit,
		Metrics:      NewMetrics(),
	}

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = customHTTPErrorHandler
	s.Router.Validator = NewValidator()
	s.RegisterGlobalMiddlewares()

	api := s.Router.Group("/api")
	s.RegisterMovieRoutes(api)
	s.RegisterUploadRoutes(api)
	s.RegisterStaticRoutes()
	s.RegisterHealthRoutes()
	s.RegisterMetricsRoutes()
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(s.Metrics.Middleware)
	s.Router.Use(middleware.Gzip())
	s.Router.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: bodyLimit,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/api/upload/")
		},
	}))
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}

	if s.RateLimit > 0 {
		s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.RateLimit))))
	}
}

func (s *Server) RegisterStaticRoutes() {
	if s.UploadDir != "" {
		s.Router.Static(strings.TrimSuffix(poster.PathPrefix, "/"), s.UploadDir)
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// customHTTPErrorHandler maps application errors to appropriate HTTP status codes.
// Only server faults are logged; their detail never reaches the response.
func customHTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"
	var fields map[string]string

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
			message = m
		}
	} else {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
			fields = errs.ErrorFields(err)
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			code = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAUTHORIZED:
			code = http.StatusUnauthorized
			message = errs.ErrorMessage(err)
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		}
	}

	if code >= http.StatusInternalServerError {
		reportError(c, err)
	}

	// Don't write response if already committed
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = writeError(c, code, message, fields, err)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func reportError(c echo.Context, err error) {
	id := requestID(c)
	slog.Error("request failed",
		"request_id", id,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", err,
	)
	sentry.WithContext(c).WithTags(map[string]string{"request_id": id}).Error(err)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
