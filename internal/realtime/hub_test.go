package realtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"fanz/internal/comments"
	"fanz/internal/posts"
)

// In-memory snapshot sources with swappable state
type fakeSources struct {
	mu       sync.Mutex
	feed     []posts.Post
	byID     map[string]*posts.Post
	comments map[string][]comments.Comment
}

func (f *fakeSources) List(ctx context.Context, pageSize int, lastID string) ([]posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.feed) > pageSize {
		return f.feed[:pageSize], nil
	}
	return f.feed, nil
}

func (f *fakeSources) GetByID(ctx context.Context, postID string) (*posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.byID[postID]
	if !ok {
		return nil, posts.ErrPostNotFound
	}
	return post, nil
}

func (f *fakeSources) ListByPost(ctx context.Context, postID string) ([]comments.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.comments[postID], nil
}

func (f *fakeSources) setPost(post *posts.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[post.ID] = post
}

func newTestHub(t *testing.T) (*Hub, *fakeSources) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sources := &fakeSources{
		byID:     map[string]*posts.Post{},
		comments: map[string][]comments.Comment{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHub(rdb, sources, sources, logger), sources
}

func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestSubscribePosts_InitialSnapshotAndRedelivery(t *testing.T) {
	hub, sources := newTestHub(t)
	sources.feed = []posts.Post{{ID: "p1", Content: "first"}}

	snapshots := make(chan []posts.Post, 16)
	sub, err := hub.SubscribePosts(context.Background(), 10, func(page []posts.Post) {
		snapshots <- page
	})
	if err != nil {
		t.Fatalf("SubscribePosts failed: %v", err)
	}
	defer sub.Cancel()

	first := waitFor(t, snapshots, "initial snapshot")
	if len(first) != 1 || first[0].ID != "p1" {
		t.Fatalf("Unexpected initial snapshot: %v", first)
	}

	sources.mu.Lock()
	sources.feed = []posts.Post{{ID: "p2", Content: "second"}, {ID: "p1", Content: "first"}}
	sources.mu.Unlock()
	hub.NotifyFeedChanged(context.Background())

	second := waitFor(t, snapshots, "feed re-delivery")
	if len(second) != 2 || second[0].ID != "p2" {
		t.Fatalf("Unexpected snapshot after change: %v", second)
	}
}

func TestSubscribePosts_SnapshotIsFullResultSet(t *testing.T) {
	hub, sources := newTestHub(t)
	sources.feed = []posts.Post{{ID: "p3"}, {ID: "p2"}, {ID: "p1"}}

	snapshots := make(chan []posts.Post, 16)
	sub, err := hub.SubscribePosts(context.Background(), 2, func(page []posts.Post) {
		snapshots <- page
	})
	if err != nil {
		t.Fatalf("SubscribePosts failed: %v", err)
	}
	defer sub.Cancel()

	page := waitFor(t, snapshots, "initial snapshot")
	if len(page) != 2 {
		t.Fatalf("Expected snapshot bounded to pageSize 2, got %d posts", len(page))
	}

	// the next delivery repeats the whole window, not just the change
	hub.NotifyFeedChanged(context.Background())
	page = waitFor(t, snapshots, "re-delivery")
	if len(page) != 2 {
		t.Fatalf("Expected full window on re-delivery, got %d posts", len(page))
	}
}

func TestSubscribeComments(t *testing.T) {
	hub, sources := newTestHub(t)
	sources.comments["p1"] = []comments.Comment{{ID: "c1", PostID: "p1"}}

	snapshots := make(chan []comments.Comment, 16)
	sub, err := hub.SubscribeComments(context.Background(), "p1", func(list []comments.Comment) {
		snapshots <- list
	})
	if err != nil {
		t.Fatalf("SubscribeComments failed: %v", err)
	}
	defer sub.Cancel()

	first := waitFor(t, snapshots, "initial comments")
	if len(first) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(first))
	}

	sources.mu.Lock()
	sources.comments["p1"] = []comments.Comment{{ID: "c2", PostID: "p1"}, {ID: "c1", PostID: "p1"}}
	sources.mu.Unlock()
	hub.NotifyCommentsChanged(context.Background(), "p1")

	second := waitFor(t, snapshots, "comments re-delivery")
	if len(second) != 2 {
		t.Fatalf("Expected 2 comments after change, got %d", len(second))
	}
}

func TestSubscribeComments_OtherPostDoesNotTrigger(t *testing.T) {
	hub, sources := newTestHub(t)
	sources.comments["p1"] = []comments.Comment{}

	snapshots := make(chan []comments.Comment, 16)
	sub, err := hub.SubscribeComments(context.Background(), "p1", func(list []comments.Comment) {
		snapshots <- list
	})
	if err != nil {
		t.Fatalf("SubscribeComments failed: %v", err)
	}
	defer sub.Cancel()

	waitFor(t, snapshots, "initial comments")

	hub.NotifyCommentsChanged(context.Background(), "p2")

	select {
	case <-snapshots:
		t.Fatal("Change to another post must not trigger a delivery")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscribeLikeCount(t *testing.T) {
	hub, sources := newTestHub(t)
	sources.setPost(&posts.Post{ID: "p1", Likes: 3, Comments: 1})

	counts := make(chan int64, 16)
	sub, err := hub.SubscribeLikeCount(context.Background(), "p1", func(n int64) {
		counts <- n
	})
	if err != nil {
		t.Fatalf("SubscribeLikeCount failed: %v", err)
	}
	defer sub.Cancel()

	if n := waitFor(t, counts, "initial like count"); n != 3 {
		t.Fatalf("Expected initial count 3, got %d", n)
	}

	sources.setPost(&posts.Post{ID: "p1", Likes: 4, Comments: 1})
	hub.NotifyPostChanged(context.Background(), "p1")

	if n := waitFor(t, counts, "updated like count"); n != 4 {
		t.Fatalf("Expected count 4 after change, got %d", n)
	}
}

func TestSubscribeCommentCount_DeletedPostSkipsDelivery(t *testing.T) {
	hub, sources := newTestHub(t)
	sources.setPost(&posts.Post{ID: "p1", Comments: 2})

	counts := make(chan int64, 16)
	sub, err := hub.SubscribeCommentCount(context.Background(), "p1", func(n int64) {
		counts <- n
	})
	if err != nil {
		t.Fatalf("SubscribeCommentCount failed: %v", err)
	}
	defer sub.Cancel()

	if n := waitFor(t, counts, "initial comment count"); n != 2 {
		t.Fatalf("Expected initial count 2, got %d", n)
	}

	sources.mu.Lock()
	delete(sources.byID, "p1")
	sources.mu.Unlock()
	hub.NotifyPostChanged(context.Background(), "p1")

	select {
	case n := <-counts:
		t.Fatalf("Deleted post must not deliver, got %d", n)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscriptionCancel_StopsDeliveries(t *testing.T) {
	hub, sources := newTestHub(t)
	sources.feed = []posts.Post{{ID: "p1"}}

	snapshots := make(chan []posts.Post, 16)
	sub, err := hub.SubscribePosts(context.Background(), 10, func(page []posts.Post) {
		snapshots <- page
	})
	if err != nil {
		t.Fatalf("SubscribePosts failed: %v", err)
	}

	waitFor(t, snapshots, "initial snapshot")

	sub.Cancel()
	sub.Cancel() // idempotent

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Delivery loop did not exit after Cancel")
	}

	hub.NotifyFeedChanged(context.Background())

	select {
	case <-snapshots:
		t.Fatal("Cancelled subscription must not deliver")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNotifyPostChanged_AlsoTouchesFeed(t *testing.T) {
	hub, sources := newTestHub(t)
	sources.feed = []posts.Post{{ID: "p1", Likes: 0}}

	snapshots := make(chan []posts.Post, 16)
	sub, err := hub.SubscribePosts(context.Background(), 10, func(page []posts.Post) {
		snapshots <- page
	})
	if err != nil {
		t.Fatalf("SubscribePosts failed: %v", err)
	}
	defer sub.Cancel()

	waitFor(t, snapshots, "initial snapshot")

	// a like lands on a post inside the watched window
	sources.mu.Lock()
	sources.feed = []posts.Post{{ID: "p1", Likes: 1}}
	sources.mu.Unlock()
	hub.NotifyPostChanged(context.Background(), "p1")

	page := waitFor(t, snapshots, "feed delivery after post change")
	if page[0].Likes != 1 {
		t.Fatalf("Expected updated counter in feed snapshot, got %d", page[0].Likes)
	}
}
