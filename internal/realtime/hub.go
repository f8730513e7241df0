// Package realtime implements push-based snapshot subscriptions over redis
// pub/sub. Writers publish a change notification per affected channel; the
// hub re-queries the store on every notification and delivers the full
// result set (never a diff) to each subscriber's callback.
package realtime

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"fanz/internal/comments"
	"fanz/internal/posts"
)

// DefaultPageSize bounds the feed snapshot when the subscriber does not ask
// for a specific size.
const DefaultPageSize = 10

const (
	feedChannel           = "engagement.posts"
	postChannelPrefix     = "engagement.post."
	commentsChannelPrefix = "engagement.comments."
)

// PostSource provides feed and single-document snapshots. Satisfied by
// posts.Repository.
type PostSource interface {
	List(ctx context.Context, pageSize int, lastID string) ([]posts.Post, error)
	GetByID(ctx context.Context, postID string) (*posts.Post, error)
}

// CommentSource provides per-post comment snapshots. Satisfied by
// comments.Repository.
type CommentSource interface {
	ListByPost(ctx context.Context, postID string) ([]comments.Comment, error)
}

// Hub fans change notifications out to snapshot subscriptions.
type Hub struct {
	rdb      *redis.Client
	posts    PostSource
	comments CommentSource
	logger   *slog.Logger
}

// NewHub creates a hub over the given redis client and snapshot sources.
func NewHub(rdb *redis.Client, postSource PostSource, commentSource CommentSource, logger *slog.Logger) *Hub {
	return &Hub{
		rdb:      rdb,
		posts:    postSource,
		comments: commentSource,
		logger:   logger,
	}
}

// NotifyFeedChanged announces a change to the post feed (insert, update or
// delete among the newest posts).
func (h *Hub) NotifyFeedChanged(ctx context.Context) {
	h.publish(ctx, feedChannel)
}

// NotifyPostChanged announces a write to a single post document. Any field
// change re-triggers counter subscriptions on that post, and the feed
// snapshot contains the document too.
func (h *Hub) NotifyPostChanged(ctx context.Context, postID string) {
	h.publish(ctx, postChannelPrefix+postID)
	h.publish(ctx, feedChannel)
}

// NotifyCommentsChanged announces a change to one post's comment list.
func (h *Hub) NotifyCommentsChanged(ctx context.Context, postID string) {
	h.publish(ctx, commentsChannelPrefix+postID)
}

func (h *Hub) publish(ctx context.Context, channel string) {
	if err := h.rdb.Publish(ctx, channel, "1").Err(); err != nil {
		h.logger.Warn("Failed to publish change notification",
			"channel", channel,
			"error", err,
		)
	}
}

// Health pings redis for the /health endpoint.
func (h *Hub) Health(ctx context.Context) error {
	return h.rdb.Ping(ctx).Err()
}
