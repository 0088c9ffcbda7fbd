package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ai_detector/internal/aidetect"
	"ai_detector/internal/humanize"
	"ai_detector/internal/logger"
	"ai_detector/internal/transport"
)

const (
	corsMaxAgeHours   = 12
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

type Config struct {
	// GinMode is passed to gin.SetMode when set.
	GinMode      string
	AllowOrigins []string
	Detector     aidetect.Config
}

// Server is a local stand-in for the remote analysis service.
type Server struct {
	cfg      Config
	log      logger.Logger
	rewriter *humanize.Rewriter
	metrics  *Metrics
	router   *gin.Engine
}

func New(cfg Config, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	rw, err := humanize.Default()
	if err != nil {
		return nil, fmt.Errorf("load rewriter: %w", err)
	}
	s := &Server{
		cfg:      cfg,
		log:      log.With(logger.String("component", "devserver")),
		rewriter: rw,
		metrics:  newMetrics(),
	}
	s.router = s.newRouter()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        corsMaxAgeHours * time.Hour,
	}
	if len(s.cfg.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = s.cfg.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))
	router.Use(s.metrics.middleware())
	router.Use(ginLogger(s.log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	router.POST(transport.PathDetect, s.handleDetect)
	router.POST(transport.PathUpload, s.handleUpload)
	router.POST(transport.PathHumanize, s.handleHumanize)

	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dev server listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("dev server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", c.Writer.Status()),
			logger.String("request_id", c.GetHeader("X-Request-ID")),
			logger.Duration("duration", time.Since(start)),
		)
	}
}
