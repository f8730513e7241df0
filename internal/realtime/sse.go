package realtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fanz/internal/comments"
	"fanz/internal/posts"
)

// SSEHandler exposes the subscription layer over server-sent events so the
// presentation layer can attach live observers without touching redis.
type SSEHandler struct {
	hub *Hub
}

// NewSSEHandler creates a new SSE handler over the hub
func NewSSEHandler(hub *Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// StreamPosts handles GET /api/realtime/posts?pageSize
func (h *SSEHandler) StreamPosts(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(DefaultPageSize)))

	snapshots := make(chan []posts.Post, 1)
	sub, err := h.hub.SubscribePosts(c.Request.Context(), pageSize, func(p []posts.Post) {
		offer(snapshots, p)
	})
	if err != nil {
		slog.Error("Failed to subscribe to posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	defer sub.Cancel()

	stream(c, "posts", snapshots)
}

// StreamComments handles GET /api/realtime/comments?postId
func (h *SSEHandler) StreamComments(c *gin.Context) {
	postID := c.Query("postId")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post ID is required"})
		return
	}

	snapshots := make(chan []comments.Comment, 1)
	sub, err := h.hub.SubscribeComments(c.Request.Context(), postID, func(cs []comments.Comment) {
		offer(snapshots, cs)
	})
	if err != nil {
		slog.Error("Failed to subscribe to comments", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	defer sub.Cancel()

	stream(c, "comments", snapshots)
}

// StreamLikeCount handles GET /api/realtime/likes?postId
func (h *SSEHandler) StreamLikeCount(c *gin.Context) {
	h.streamCounter(c, "likes", h.hub.SubscribeLikeCount)
}

// StreamCommentCount handles GET /api/realtime/comments/count?postId
func (h *SSEHandler) StreamCommentCount(c *gin.Context) {
	h.streamCounter(c, "comments", h.hub.SubscribeCommentCount)
}

func (h *SSEHandler) streamCounter(c *gin.Context, event string, subscribe func(ctx context.Context, postID string, fn func(int64)) (*Subscription, error)) {
	postID := c.Query("postId")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post ID is required"})
		return
	}

	counts := make(chan int64, 1)
	sub, err := subscribe(c.Request.Context(), postID, func(n int64) {
		offer(counts, n)
	})
	if err != nil {
		slog.Error("Failed to subscribe to counter", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	defer sub.Cancel()

	stream(c, event, counts)
}

// offer replaces any undelivered snapshot with the newer one. The callback
// goroutine is the only sender, so drain-then-send cannot race with itself.
func offer[T any](ch chan T, value T) {
	select {
	case ch <- value:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- value
	}
}

func stream[T any](c *gin.Context, event string, ch <-chan T) {
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(event, snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
