package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	apihttp "github.com/GriffinCanCode/PixelDesk/backend/internal/api/http"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/api/middleware"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/api/ws"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/editor"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/providers/assets"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/providers/fonts"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/providers/imaging"
	"github.com/GriffinCanCode/PixelDesk/backend/internal/shared/types"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	http      *http.Server
	editor    *editor.Editor
	hub       *ws.Hub
	documents snapshot.Store
	tracer    *tracing.Tracer
	metrics   *monitoring.Metrics
	logger    *logging.Logger
	config    *config.Config
	detach    func()

	closeOnce sync.Once
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing PixelDesk editor server",
		zap.String("addr", cfg.Server.Host+":"+cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	settings, err := config.LoadSettings(cfg.Editor.SettingsFile)
	if err != nil {
		return nil, err
	}

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("editor", logger.Logger)

	fetcher := assets.NewFetcher(assets.Config{
		Root:         cfg.Assets.Root,
		BaseURL:      cfg.Assets.BaseURL,
		AllowedHosts: cfg.Assets.AllowedHosts,
		Timeout:      cfg.Assets.Timeout,
		RetryMax:     cfg.Assets.RetryMax,
		MaxBytes:     cfg.Assets.MaxBytes,
	}, logger.Named("assets"))
	fontLoader, err := fonts.NewLoader(fetcher, logger.Named("fonts"))
	if err != nil {
		tracer.Close()
		return nil, err
	}
	catalog := fonts.NewCatalog(settings.Tools.Text.Items)

	documents, err := openStore(cfg.Storage)
	if err != nil {
		tracer.Close()
		return nil, err
	}
	if documents != nil {
		logger.Info("Document storage ready",
			zap.String("driver", cfg.Storage.Driver),
			zap.String("path", cfg.Storage.Path))
	}

	ed := editor.New(editor.Options{
		Viewport:     types.Size{Width: cfg.Editor.ViewportWidth, Height: cfg.Editor.ViewportHeight},
		Settings:     settings,
		Images:       imaging.NewLoader(fetcher, logger.Named("imaging")),
		Fonts:        fontLoader,
		Catalog:      catalog,
		Documents:    documents,
		Metrics:      metrics,
		Logger:       logger.Named("editor"),
		FallbackFont: cfg.Editor.FallbackFont,
	})

	hub := ws.NewHub(ws.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Status:         func() any { return ed.Status() },
		Metrics:        metrics,
		Logger:         logger.Named("stream"),
	})
	detach := hub.Attach(ed)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORS.AllowedOrigins
	router.Use(middleware.CORS(cors))

	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limits))
	}

	handlers := apihttp.NewHandlers(ed, metrics, catalog, logger.Named("http"))
	handlers.Register(router)
	router.GET("/stream", hub.ServeWS)

	s := &Server{
		router:    router,
		editor:    ed,
		hub:       hub,
		documents: documents,
		tracer:    tracer,
		metrics:   metrics,
		logger:    logger,
		config:    cfg,
		detach:    detach,
	}
	s.http = &http.Server{
		Addr:              s.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// openStore opens the configured document store; "none" returns nil
func openStore(cfg config.StorageConfig) (snapshot.Store, error) {
	switch cfg.Driver {
	case "file":
		store, err := snapshot.NewFileStore(cfg.Path, cfg.Compression)
		if err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		return store, nil
	case "sqlite":
		store, err := snapshot.OpenSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
}

// Handler returns the router
func (s *Server) Handler() http.Handler { return s.router }

// Editor returns the editor the server drives
func (s *Server) Editor() *editor.Editor { return s.editor }

// Run listens on the configured address and serves until Shutdown
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. Connections beyond the configured
// maximum wait in the accept queue.
func (s *Server) Serve(ln net.Listener) error {
	if limit := s.config.Server.MaxConnections; limit > 0 {
		ln = netutil.LimitListener(ln, limit)
	}
	s.logger.Info("Starting HTTP server",
		zap.String("addr", ln.Addr().String()),
		zap.Int("max_connections", s.config.Server.MaxConnections))

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// ends, then releases the editor and its storage
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Info("Shutting down server...")

		s.hub.Close()
		if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("HTTP shutdown failed", zap.Error(shutdownErr))
			err = fmt.Errorf("failed to shut down http server: %w", shutdownErr)
		}

		s.detach()
		s.editor.Close()
		if s.documents != nil {
			if closeErr := s.documents.Close(); closeErr != nil {
				s.logger.Error("Failed to close document store", zap.Error(closeErr))
				err = errors.Join(err, fmt.Errorf("failed to close document store: %w", closeErr))
			}
		}
		s.tracer.Close()

		_ = s.logger.Sync()
	})
	return err
}
