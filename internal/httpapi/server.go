// Package httpapi is the ambient introspection surface around a nanofill
// run: book snapshots, latency metrics, and a websocket feed. None of it
// is reachable from the pipeline's two hot-path goroutines; handlers only
// read from the snapshot cache and metrics registry the consumer (or a
// background worker) publishes to.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/abdoElHodaky/nanofill/internal/cache"
	"github.com/abdoElHodaky/nanofill/internal/config"
	"github.com/abdoElHodaky/nanofill/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the gin-backed HTTP introspection server.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New builds a Server wired to snap (book snapshots) and reg (prometheus
// collectors). It does not start listening; call Start.
func New(cfg *config.Config, snap *cache.SnapshotCache, reg *metrics.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(newRateLimiter(logger))

	s := &Server{
		engine: engine,
		logger: logger.With(zap.String("component", "httpapi")),
		http: &http.Server{
			Addr:    cfg.HTTP.Address,
			Handler: engine,
		},
	}

	registerRoutes(engine, snap, reg)

	return s
}

func registerRoutes(engine *gin.Engine, snap *cache.SnapshotCache, reg *metrics.Registry) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg.Gatherer, promhttp.HandlerOpts{})))

	engine.GET("/book/snapshot", func(c *gin.Context) {
		view, ok := snap.Get()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot published yet"})
			return
		}
		c.JSON(http.StatusOK, view)
	})

	engine.GET("/ws/latency", newSnapshotWebSocketHandler(snap))

	registerSwaggerRoutes(engine)
}

// Start begins serving in a background goroutine and returns immediately.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("httpapi server exited", zap.Error(err))
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Engine exposes the underlying gin engine, chiefly so tests can drive the
// registered routes directly through httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
