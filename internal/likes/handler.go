package likes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fanz/internal/identity"
)

// Handler handles HTTP requests for likes
type Handler struct {
	service Service
}

// NewHandler creates a new likes handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Toggle handles POST /api/likes
func (h *Handler) Toggle(c *gin.Context) {
	userID, ok := identity.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PostID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	action, err := h.service.Toggle(c.Request.Context(), req.PostID, userID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		slog.Error("Failed to toggle like", "post_id", req.PostID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like status"})
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{Success: true, Action: action})
}

// HasLiked handles GET /api/likes?postId
func (h *Handler) HasLiked(c *gin.Context) {
	userID, ok := identity.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	postID := c.Query("postId")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	liked, err := h.service.HasLiked(c.Request.Context(), postID, userID)
	if err != nil {
		slog.Error("Failed to check like status", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check like status"})
		return
	}

	c.JSON(http.StatusOK, LikedResponse{Liked: liked})
}
