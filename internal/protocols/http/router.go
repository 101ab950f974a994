// Package http is the REST adapter over the core services: routing,
// authentication middleware, and core-error to status mapping.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"agora/internal/core"
	"agora/pkg/config"
	"agora/pkg/logger"
)

// Server is the HTTP REST API server
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	authSvc     core.AuthService
	feedbackSvc core.FeedbackService
	commentSvc  core.CommentService
	userSvc     core.UserService
}

// NewServer creates the HTTP server with all routes registered
func NewServer(
	cfg *config.Config,
	authSvc core.AuthService,
	feedbackSvc core.FeedbackService,
	commentSvc core.CommentService,
	userSvc core.UserService,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.RateLimit.Enabled {
		router.Use(RateLimitMiddleware(cfg.RateLimit))
	}

	s := &Server{
		router:      router,
		config:      cfg,
		authSvc:     authSvc,
		feedbackSvc: feedbackSvc,
		commentSvc:  commentSvc,
		userSvc:     userSvc,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.GET("/discord/login", s.discordLogin)
			auth.GET("/discord/callback", s.discordCallback)
			auth.GET("/me", AuthMiddleware(s.authSvc), s.currentUser)
		}

		feedback := v1.Group("/feedback")
		{
			feedback.GET("", s.listFeedback)
			feedback.POST("", OptionalAuthMiddleware(s.authSvc), s.createFeedback)
			feedback.GET("/categories", s.listCategories)
			feedback.GET("/:id", s.getFeedback)
			feedback.PATCH("/:id", AuthMiddleware(s.authSvc), s.updateFeedback)
			feedback.DELETE("/:id", s.deleteFeedback)
			feedback.POST("/:id/archive", s.archiveFeedback)
			feedback.POST("/:id/reopen", s.reopenFeedback)
			feedback.POST("/:id/upvote", s.voteFeedback)

			feedback.GET("/:id/comments", s.listComments)
			feedback.PUT("/:id/comments", AuthMiddleware(s.authSvc), s.addComment)
			feedback.POST("/:id/comments/:comment_id/upvote", s.voteComment)
		}

		users := v1.Group("/users")
		{
			users.GET("/leaderboard", s.getLeaderboard)
			users.GET("/top", s.getTopUsers)
			users.GET("/:id", s.getUser)
		}
	}
}

// Start runs the server until the context is cancelled, then drains
// in-flight requests within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// requestLogger logs each served request through the structured logger
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

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
