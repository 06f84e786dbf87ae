// Package server is the HTTP adapter around the cipher engine.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cryptovault/pkg/api"
	"cryptovault/pkg/engine"
	"cryptovault/pkg/log"
	"cryptovault/pkg/metrics"
)

const banner = "Email Encryptor API - POST /encrypt and /decrypt"

type Server struct {
	cfg     *Config
	engine  *engine.Engine
	metrics *metrics.Metrics
	echo    *echo.Echo
	http    *http.Server
}

// New wires routes and middleware. m may be nil, in which case /metrics is
// not served.
func New(cfg *Config, eng *engine.Engine, m *metrics.Metrics) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if eng == nil {
		eng = engine.New(nil)
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{cfg: cfg, engine: eng, metrics: m, echo: e}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("id", v.RequestID).
				Str("remote", v.RemoteIP).
				Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	e.GET("/", s.handleRoot)
	e.GET(api.PathHealth, s.handleHealth)
	e.GET(api.PathMethods, s.handleMethods)
	e.POST(api.PathEncrypt, s.handleTransform(engine.Encrypt))
	e.POST(api.PathDecrypt, s.handleTransform(engine.Decrypt))
	if m != nil {
		e.GET(api.PathMetrics, echo.WrapHandler(m.Handler()))
	}

	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root handler, gzip-wrapped when enabled.
func (s *Server) Handler() http.Handler {
	if s.cfg.CompressResponses {
		return gzhttp.GzipHandler(s.echo)
	}
	return s.echo
}

func (s *Server) Echo() *echo.Echo { return s.echo }

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
