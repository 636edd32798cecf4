package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pastebot/internal/config"
	"pastebot/internal/models"
	"pastebot/internal/processor"
)

// Server exposes the ops HTTP surface: health check, configuration status
// and a classification preview endpoint for debugging the heuristics. It
// never touches the rate limiter or the paste store.
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	decider  processor.Decider
	detector processor.Detector
	logger   *zap.Logger
}

// NewServer initializes the gin router and routes.
func NewServer(cfg *config.Config, decider processor.Decider, detector processor.Detector, logger *zap.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	s := &Server{
		router:   router,
		cfg:      cfg,
		decider:  decider,
		detector: detector,
		logger:   logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := s.router.Group("/api")
	api.GET("/status", s.status)
	api.POST("/classify", s.classify)
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"paste_api_url":         s.cfg.PasteAPIURL,
		"website_url":           s.cfg.WebsiteURL,
		"min_message_length":    s.cfg.MinMessageLength,
		"paste_expiration_days": s.cfg.PasteExpirationDays,
		"rate_limit_window":     s.cfg.RateLimitWindow,
		"debug":                 s.cfg.Debug,
		"bot_token_configured":  s.cfg.BotToken != "",
	})
}

type classifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// classify handles POST /api/classify: it runs the real eligibility and
// language heuristics over the posted text and reports the outcome.
func (s *Server) classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	sample := models.NewSample(req.Text)
	language := s.detector.Detect(sample)

	c.JSON(http.StatusOK, gin.H{
		"eligible": s.decider.ShouldExternalize(sample),
		"language": language,
		"length":   sample.Length,
		"lines":    len(sample.Lines),
	})
}

// Run starts the HTTP server. It blocks until the listener fails.
func (s *Server) Run(addr string) {
	s.logger.Info("Ops server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Ops server failed", zap.Error(err))
	}
}
