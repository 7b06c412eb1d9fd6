package server

import (
	"context"
	"net/http"
	"strings"

	"digital-key-store/internal/handler"
	appmw "digital-key-store/internal/middleware"
	"digital-key-store/internal/repository"
	"digital-key-store/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Options struct {
	UploadsDir string
	PublicDir  string
	// AuthService gates the admin routes. Nil leaves them open.
	AuthService service.AuthService
}

type Server struct {
	echo         *echo.Echo
	logger       *zap.Logger
	opts         Options
	shopHandler  *handler.ShopHandler
	adminHandler *handler.AdminHandler
	authHandler  *handler.AuthHandler
}

func NewServer(orderService service.OrderService, opts Options, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:         e,
		logger:       logger,
		opts:         opts,
		shopHandler:  handler.NewShopHandler(orderService),
		adminHandler: handler.NewAdminHandler(orderService),
	}
	if opts.AuthService != nil {
		s.authHandler = handler.NewAuthHandler(opts.AuthService)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "status": "ok"})
	})

	api.GET("/products", s.shopHandler.Products)
	api.POST("/buy", s.shopHandler.Buy)

	// -------- admin --------
	if s.authHandler != nil {
		api.POST("/admin/login", s.authHandler.Login)
	}

	admin := api.Group("/admin", appmw.AdminAuth(s.opts.AuthService))
	admin.GET("/pending", s.adminHandler.Pending)
	admin.GET("/delivered", s.adminHandler.Delivered)
	admin.GET("/canceled", s.adminHandler.Canceled)
	admin.POST("/verify", s.adminHandler.Verify)
	admin.POST("/cancel", s.adminHandler.Cancel)

	// -------- static --------
	if s.opts.UploadsDir != "" {
		s.echo.Static(strings.TrimSuffix(repository.ProofURLPrefix, "/"), s.opts.UploadsDir)
	}
	if s.opts.PublicDir != "" {
		s.echo.Static("/", s.opts.PublicDir)
	}
}

// Handler exposes the router for in-process use.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
