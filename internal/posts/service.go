package posts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrEmptyContent is returned when a post is created or updated with no
// content.
var ErrEmptyContent = errors.New("content must not be empty")

// Notifier announces post changes to the real-time subscription layer.
// Notifications are fire-and-forget: a failed publish never fails the write.
type Notifier interface {
	NotifyFeedChanged(ctx context.Context)
	NotifyPostChanged(ctx context.Context, postID string)
	NotifyCommentsChanged(ctx context.Context, postID string)
}

// Service implements post business logic on top of the repository
type Service interface {
	Create(ctx context.Context, userID, content, imageURL string) (*Post, error)
	Get(ctx context.Context, postID string) (*Post, error)
	List(ctx context.Context, pageSize int, lastID string) ([]Post, error)
	Update(ctx context.Context, postID, userID, content, imageURL string) error
	Delete(ctx context.Context, postID, userID string) error
	Recount(ctx context.Context, postID, userID string) (*Post, error)
}

type service struct {
	repo   Repository
	events Notifier
	logger *slog.Logger
}

// NewService creates a new posts service
func NewService(repo Repository, events Notifier, logger *slog.Logger) Service {
	return &service{repo: repo, events: events, logger: logger}
}

func (s *service) Create(ctx context.Context, userID, content, imageURL string) (*Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.repo.Create(ctx, userID, content, imageURL)
	if err != nil {
		return nil, err
	}

	s.events.NotifyFeedChanged(ctx)
	return post, nil
}

func (s *service) Get(ctx context.Context, postID string) (*Post, error) {
	return s.repo.GetByID(ctx, postID)
}

func (s *service) List(ctx context.Context, pageSize int, lastID string) ([]Post, error) {
	return s.repo.List(ctx, pageSize, lastID)
}

func (s *service) Update(ctx context.Context, postID, userID, content, imageURL string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	if err := s.repo.Update(ctx, postID, userID, content, imageURL); err != nil {
		return err
	}

	s.events.NotifyPostChanged(ctx, postID)
	return nil
}

func (s *service) Delete(ctx context.Context, postID, userID string) error {
	if err := s.repo.Delete(ctx, postID, userID); err != nil {
		return err
	}

	s.events.NotifyPostChanged(ctx, postID)
	// the cascade removed the post's comments too
	s.events.NotifyCommentsChanged(ctx, postID)
	return nil
}

// Recount repairs the denormalized counters of one of the caller's posts.
func (s *service) Recount(ctx context.Context, postID, userID string) (*Post, error) {
	existing, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotOwner
	}

	post, err := s.repo.Recount(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Likes != existing.Likes || post.Comments != existing.Comments {
		s.logger.Warn("Counter drift repaired",
			"post_id", postID,
			"likes", post.Likes,
			"comments", post.Comments,
		)
	}

	s.events.NotifyPostChanged(ctx, postID)
	return post, nil
}
