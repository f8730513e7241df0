package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fanz/internal/identity"
)

// RegisterRoutes sets up the gin router with all engagement endpoints
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(s.logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")

	// Token verification is the one endpoint callable without a token.
	api.POST("/auth/verify", s.identityHandler.VerifyToken)

	authed := api.Group("")
	authed.Use(identity.AuthMiddleware(s.verifier))
	{
		authed.GET("/posts", s.postsHandler.List)
		authed.GET("/posts/:id", s.postsHandler.Get)
		authed.POST("/posts", s.postsHandler.Create)
		authed.PUT("/posts", s.postsHandler.Update)
		authed.DELETE("/posts", s.postsHandler.Delete)
		authed.POST("/posts/recount", s.postsHandler.Recount)

		authed.GET("/comments", s.commentsHandler.List)
		authed.POST("/comments", s.commentsHandler.Create)
		authed.DELETE("/comments", s.commentsHandler.Delete)

		authed.POST("/likes", s.likesHandler.Toggle)
		authed.GET("/likes", s.likesHandler.HasLiked)

		authed.GET("/realtime/posts", s.sseHandler.StreamPosts)
		authed.GET("/realtime/comments", s.sseHandler.StreamComments)
		authed.GET("/realtime/likes", s.sseHandler.StreamLikeCount)
		authed.GET("/realtime/comments/count", s.sseHandler.StreamCommentCount)

		if s.mediaHandler != nil {
			authed.POST("/media/upload-url", s.mediaHandler.UploadURL)
			authed.POST("/media/download-url", s.mediaHandler.DownloadURL)
		} else {
			authed.POST("/media/upload-url", s.mediaUnavailable)
			authed.POST("/media/download-url", s.mediaUnavailable)
		}
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	dbHealth := s.db.Health(c.Request.Context())

	status := http.StatusOK
	health := gin.H{
		"status":   "up",
		"database": dbHealth,
		"redis":    "up",
	}

	if dbHealth["status"] != "up" {
		health["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	if err := s.hub.Health(c.Request.Context()); err != nil {
		health["redis"] = "down"
		health["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, health)
}

func (s *Server) mediaUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Media storage is not configured"})
}

func corsOrigins() []string {
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins := strings.Split(raw, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}
	return []string{"http://localhost:5173", "http://localhost:3000"}
}
