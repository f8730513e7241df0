package posts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fanz/internal/identity"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Handler handles HTTP requests for posts
type Handler struct {
	service Service
}

// NewHandler creates a new posts handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/posts?pageSize&lastId
func (h *Handler) List(c *gin.Context) {
	if _, ok := identity.CurrentUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	lastID := c.Query("lastId")

	posts, err := h.service.List(c.Request.Context(), pageSize, lastID)
	if err != nil {
		slog.Error("Failed to fetch posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{Posts: posts})
}

// Get handles GET /api/posts/:id
func (h *Handler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		slog.Error("Failed to fetch post", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Create handles POST /api/posts
func (h *Handler) Create(c *gin.Context) {
	userID, ok := identity.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	post, err := h.service.Create(c.Request.Context(), userID, req.Content, req.ImageURL)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		slog.Error("Failed to create post", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// Update handles PUT /api/posts
func (h *Handler) Update(c *gin.Context) {
	userID, ok := identity.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	err := h.service.Update(c.Request.Context(), req.PostID, userID, req.Content, req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		case errors.Is(err, ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own posts"})
		default:
			slog.Error("Failed to update post", "post_id", req.PostID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete handles DELETE /api/posts?postId
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := identity.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	postID := c.Query("postId")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post ID is required"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), postID, userID); err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		default:
			slog.Error("Failed to delete post", "post_id", postID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Recount handles POST /api/posts/recount
func (h *Handler) Recount(c *gin.Context) {
	userID, ok := identity.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid token"})
		return
	}

	var req RecountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	post, err := h.service.Recount(c.Request.Context(), req.PostID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only recount your own posts"})
		default:
			slog.Error("Failed to recount post", "post_id", req.PostID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recount post"})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}
