package comments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fanz/internal/identity"
)

// Handler handles HTTP requests for comments
type Handler struct {
	service Service
}

// NewHandler creates a new comments handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/comments?postId
func (h *Handler) List(c *gin.Context) {
	if _, ok := identity.CurrentUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	postID := c.Query("postId")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post ID is required"})
		return
	}

	comments, err := h.service.ListByPost(c.Request.Context(), postID)
	if err != nil {
		slog.Error("Failed to fetch comments", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{Comments: comments})
}

// Create handles POST /api/comments
func (h *Handler) Create(c *gin.Context) {
	userID, ok := identity.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	comment, err := h.service.Add(c.Request.Context(), req.PostID, userID, req.Content)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		slog.Error("Failed to add comment", "post_id", req.PostID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /api/comments?commentId&postId
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := identity.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	commentID := c.Query("commentId")
	postID := c.Query("postId")
	if commentID == "" || postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment ID and Post ID are required"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		default:
			slog.Error("Failed to delete comment", "comment_id", commentID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
