// Package web serves the game over HTTP: a websocket per player, plus
// health and Prometheus endpoints.
package web

import (
	"net/http"
	"sync/atomic"
	"time"

	"setgame/internal/config"
	"setgame/internal/domain"
	"setgame/internal/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures the HTTP server.
type Options struct {
	Config   *config.GameConfig
	Logger   *zap.Logger
	Recorder ports.Recorder
	// Gatherer backs /metrics. Nil uses the default Prometheus registry.
	Gatherer prometheus.Gatherer
	// TickInterval is how often each connection advances its clock (default 100ms).
	TickInterval time.Duration
}

// Server owns the per-connection game sessions.
type Server struct {
	cfg      *config.GameConfig
	logger   *zap.Logger
	recorder ports.Recorder
	gatherer prometheus.Gatherer
	tick     time.Duration
	upgrader websocket.Upgrader
	active   atomic.Int64
}

// NewServer builds a Server from opts, filling in defaults.
func NewServer(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = ports.NopRecorder{}
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}
	s := &Server{
		cfg:      opts.Config,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		gatherer: opts.Gatherer,
		tick:     opts.TickInterval,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	return s
}

// Router returns the gin engine with every route installed.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(s.corsConfig()))

	r.GET("/healthz", s.handleHealth)
	r.GET("/menu", s.handleMenu)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	r.GET("/ws", s.handleWebSocket)
	return r
}

// ActiveConnections returns the number of open websocket sessions.
func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

func (s *Server) corsConfig() cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if s.allowAllOrigins() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = s.cfg.Server.AllowedOrigins
	}
	return c
}

func (s *Server) allowAllOrigins() bool {
	if len(s.cfg.Server.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range s.cfg.Server.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.allowAllOrigins() {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.Server.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": s.ActiveConnections(),
	})
}

// handleMenu lists what the start menu offers.
func (s *Server) handleMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"difficulties":             []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyStandard},
		"duration_options":         s.cfg.DurationOptions,
		"default_duration_seconds": s.cfg.DefaultDurationSeconds,
	})
}
