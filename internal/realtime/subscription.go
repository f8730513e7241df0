package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"fanz/internal/comments"
	"fanz/internal/posts"
)

// Subscription is a live observer attached to the hub. Cancel is idempotent
// and stops future deliveries; a delivery already in flight may still land.
type Subscription struct {
	cancel context.CancelFunc
	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
}

// Cancel detaches the observer.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.cancel()
		s.pubsub.Close()
	})
}

// Done is closed once the delivery loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// SubscribePosts delivers the current top-pageSize posts immediately and
// again every time the watched range changes.
func (h *Hub) SubscribePosts(ctx context.Context, pageSize int, fn func([]posts.Post)) (*Subscription, error) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return h.subscribe(ctx, feedChannel, func(ctx context.Context) error {
		snapshot, err := h.posts.List(ctx, pageSize, "")
		if err != nil {
			return err
		}
		fn(snapshot)
		return nil
	})
}

// SubscribeComments delivers one post's comments, newest first, on every
// change to that post's comment list.
func (h *Hub) SubscribeComments(ctx context.Context, postID string, fn func([]comments.Comment)) (*Subscription, error) {
	return h.subscribe(ctx, commentsChannelPrefix+postID, func(ctx context.Context) error {
		snapshot, err := h.comments.ListByPost(ctx, postID)
		if err != nil {
			return err
		}
		fn(snapshot)
		return nil
	})
}

// SubscribeLikeCount delivers the post's like counter on every write to the
// post document.
func (h *Hub) SubscribeLikeCount(ctx context.Context, postID string, fn func(int64)) (*Subscription, error) {
	return h.subscribeCounter(ctx, postID, func(p *posts.Post) { fn(p.Likes) })
}

// SubscribeCommentCount delivers the post's comment counter on every write
// to the post document.
func (h *Hub) SubscribeCommentCount(ctx context.Context, postID string, fn func(int64)) (*Subscription, error) {
	return h.subscribeCounter(ctx, postID, func(p *posts.Post) { fn(p.Comments) })
}

func (h *Hub) subscribeCounter(ctx context.Context, postID string, fn func(*posts.Post)) (*Subscription, error) {
	return h.subscribe(ctx, postChannelPrefix+postID, func(ctx context.Context) error {
		post, err := h.posts.GetByID(ctx, postID)
		if errors.Is(err, posts.ErrPostNotFound) {
			// watched document is gone; nothing to deliver
			return nil
		}
		if err != nil {
			return err
		}
		fn(post)
		return nil
	})
}

func (h *Hub) subscribe(ctx context.Context, channel string, deliver func(context.Context) error) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	pubsub := h.rdb.Subscribe(ctx, channel)
	// confirm the subscription before the first snapshot so no change
	// notification falls between the two
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		cancel()
		return nil, err
	}

	sub := &Subscription{
		cancel: cancel,
		pubsub: pubsub,
		done:   make(chan struct{}),
	}

	go h.deliverLoop(ctx, sub, channel, deliver)
	return sub, nil
}

func (h *Hub) deliverLoop(ctx context.Context, sub *Subscription, channel string, deliver func(context.Context) error) {
	defer close(sub.done)

	if err := deliver(ctx); err != nil && ctx.Err() == nil {
		h.logger.Warn("Initial snapshot delivery failed", "channel", channel, "error", err)
	}

	messages := sub.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-messages:
			if !ok {
				return
			}
			if err := deliver(ctx); err != nil && ctx.Err() == nil {
				h.logger.Warn("Snapshot delivery failed", "channel", channel, "error", err)
			}
		}
	}
}
