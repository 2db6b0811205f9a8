package api

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/petroplus2966/petroplus-menu-board/config"
	"github.com/petroplus2966/petroplus-menu-board/internal/board"
	"github.com/petroplus2966/petroplus-menu-board/internal/display"

	"github.com/gin-gonic/gin"
)

//go:embed display.html
var displayPage []byte

type Server struct {
	router *gin.Engine
	server *http.Server
	state  *display.State
	board  *board.Board
	config *config.Config
	port   int
}

type ServerConfig struct {
	Port   int
	State  *display.State
	Board  *board.Board
	Config *config.Config
}

func NewServer(cfg ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router: router,
		state:  cfg.State,
		board:  cfg.Board,
		config: cfg.Config,
		port:   cfg.Port,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.displayHandler)
	s.router.HEAD("/", s.displayHandler)
	s.router.GET("/healthz", s.healthHandler)
	s.router.GET("/ws", s.websocketHandler)

	api := s.router.Group("/api/v1")
	{
		api.GET("/display", s.snapshotHandler)
		api.GET("/ticker", s.tickerHandler)
		api.GET("/weather", s.weatherHandler)
		api.GET("/promo", s.promoHandler)
		api.GET("/config", s.configHandler)
	}
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) displayHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", displayPage)
}

func (s *Server) healthHandler(c *gin.Context) {
	snap := s.state.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"version":           snap.Version,
		"weather_available": snap.WeatherAvailable,
		"weather_at":        snap.WeatherAt,
		"headlines_at":      snap.HeadlinesAt,
		"promo_at":          snap.PromoAt,
		"started_at":        snap.StartedAt,
		"timestamp":         time.Now(),
	})
}

func (s *Server) snapshotHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot())
}

func (s *Server) tickerHandler(c *gin.Context) {
	snap := s.state.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"text":       snap.TickerText,
		"mode":       snap.TickerMode,
		"generation": snap.TickerGeneration,
	})
}

func (s *Server) weatherHandler(c *gin.Context) {
	snap := s.state.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"glyph":     snap.WeatherGlyph,
		"label":     snap.WeatherLabel,
		"temp_text": snap.WeatherTempText,
		"meta_text": snap.WeatherMetaText,
		"available": snap.WeatherAvailable,
		"fetched":   snap.WeatherAt,
	})
}

func (s *Server) promoHandler(c *gin.Context) {
	snap := s.state.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"url":      snap.PromoURL,
		"index":    snap.PromoIndex,
		"count":    snap.PromoCount,
		"playlist": s.board.Promo().Playlist(),
	})
}

// configHandler exposes the effective config minus credentials.
func (s *Server) configHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"location": s.config.Location,
		"clock":    s.config.Clock,
		"weather":  s.config.Weather,
		"headlines": gin.H{
			"enabled":   s.config.Headlines.Enabled,
			"interval":  s.config.Headlines.Interval.String(),
			"max_items": s.config.Headlines.MaxItems,
			"feeds":     len(s.config.Headlines.Feeds),
		},
		"ticker": s.config.Ticker,
		"promo": gin.H{
			"enabled":    s.config.Promo.Enabled,
			"interval":   s.config.Promo.Interval.String(),
			"candidates": s.config.Promo.Candidates,
		},
		"reload": s.config.Reload,
	})
}
