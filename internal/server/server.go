// Package server exposes the ledger over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/sleekspend/sleekspend/internal/categories"
	"github.com/sleekspend/sleekspend/internal/expense"
	"github.com/sleekspend/sleekspend/internal/ledger"
	"github.com/sleekspend/sleekspend/internal/log"
)

const shutdownTimeout = 10 * time.Second

// Mode returns the gin mode for a log level: debug keeps gin's route dump, anything else is
// release.
func Mode(logLevel string) string {
	if level, err := log.ParseLevel(logLevel); err == nil && level <= slog.LevelDebug {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// Config holds server settings.
type Config struct {
	Addr         string
	AllowOrigins []string
}

// Server serves the JSON API for one ledger.
type Server struct {
	cfg     Config
	ledger  *ledger.Controller
	factory *expense.Factory
	catalog *categories.Catalog
	logger  *log.Logger
	engine  *gin.Engine
}

// New creates a Server and registers its routes.
func New(cfg Config, ctrl *ledger.Controller, factory *expense.Factory, catalog *categories.Catalog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Nop()
	}
	s := &Server{
		cfg:     cfg,
		ledger:  ctrl,
		factory: factory,
		catalog: catalog,
		logger:  logger.WithComponent(log.ComponentHTTP),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	if len(s.cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  s.cfg.AllowOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}

	api := r.Group("/api")
	api.GET("/health", s.health)

	api.GET("/expenses", s.listExpenses)
	api.POST("/expenses", s.createExpense)
	api.DELETE("/expenses/:id", s.deleteExpense)

	api.GET("/days", s.listDays)

	api.GET("/filter", s.getFilter)
	api.PUT("/filter", s.setFilter)
	api.DELETE("/filter", s.resetFilter)

	api.GET("/summary", s.summary)
	api.GET("/categories", s.listCategories)
	api.GET("/export", s.export)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", log.FieldAddr, s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// requestLogger logs each request through the component logger.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			log.FieldMethod, c.Request.Method,
			log.FieldPath, c.Request.URL.Path,
			log.FieldStatusCode, status,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
			return
		}
		logger.Debug("request", attrs...)
	}
}
