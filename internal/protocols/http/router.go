// Package http - REST API surface for the mobile web client
package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"misimuslim/internal/core"
	wsProtocol "misimuslim/internal/protocols/websocket"
	"misimuslim/pkg/config"
	"misimuslim/pkg/logger"
)

// Server manages the HTTP REST API
type Server struct {
	router         *gin.Engine
	config         *config.Config
	authSvc        core.AuthService
	missionSvc     core.MissionService
	rewardSvc      core.RewardService
	forumSvc       core.ForumService
	leaderboardSvc core.LeaderboardService
	quoteSvc       core.QuoteService
	verifySvc      core.VerificationService
	profileSvc     core.ProfileService
	feed           core.FeedPublisher
	wsHandler      *wsProtocol.Handler
}

// NewServer creates a new HTTP server with all handlers
func NewServer(
	cfg *config.Config,
	authSvc core.AuthService,
	missionSvc core.MissionService,
	rewardSvc core.RewardService,
	forumSvc core.ForumService,
	leaderboardSvc core.LeaderboardService,
	quoteSvc core.QuoteService,
	verifySvc core.VerificationService,
	profileSvc core.ProfileService,
	feed core.FeedPublisher,
	wsHandler *wsProtocol.Handler,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	s := &Server{
		router:         router,
		config:         cfg,
		authSvc:        authSvc,
		missionSvc:     missionSvc,
		rewardSvc:      rewardSvc,
		forumSvc:       forumSvc,
		leaderboardSvc: leaderboardSvc,
		quoteSvc:       quoteSvc,
		verifySvc:      verifySvc,
		profileSvc:     profileSvc,
		feed:           feed,
		wsHandler:      wsHandler,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// AI-backed endpoints share one per-client limiter
	aiLimit := RateLimitMiddleware(s.config.RateLimit.RequestsPerMinute, s.config.RateLimit.Burst)

	v1 := s.router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", s.register)
			auth.POST("/login", s.login)
		}

		// Public content
		v1.GET("/quote", aiLimit, s.getDailyQuote)
		v1.GET("/leaderboard", s.getLeaderboard)
		v1.GET("/rewards", s.listRewards)
		v1.GET("/forum/posts", s.listPosts)
		v1.GET("/forum/posts/:id/comments", s.listComments)

		// Protected routes
		protected := v1.Group("", AuthMiddleware(s.authSvc))
		{
			missions := protected.Group("/missions")
			{
				missions.POST("/sync", s.syncMissions)
				missions.GET("", s.listMissions)
				missions.POST("/:id/complete", s.completeMission)
				missions.POST("/:id/photo", aiLimit, s.submitPhoto)
			}

			protected.POST("/recitation", aiLimit, s.submitRecitation)

			protected.POST("/forum/posts", s.createPost)
			protected.POST("/forum/posts/:id/comments", s.createComment)

			protected.POST("/rewards/:id/redeem", s.redeemReward)

			profile := protected.Group("/profile")
			{
				profile.GET("", s.getProfile)
				profile.PUT("/border", s.setActiveBorder)
				profile.POST("/avatar", aiLimit, s.generateAvatar)
			}
		}
	}

	// Live community feed
	s.router.GET("/ws/feed", s.wsHandler.HandleFeed)
	s.router.GET("/ws/status", s.wsHandler.Status)
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// requestLogger logs each request through the shared structured logger
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.HTTP(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			int(time.Since(start).Milliseconds()),
		)
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
