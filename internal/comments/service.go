package comments

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidInput is returned when postId or content is missing or empty.
var ErrInvalidInput = errors.New("post id and content are required")

// Notifier announces comment and counter changes to the real-time layer.
type Notifier interface {
	NotifyPostChanged(ctx context.Context, postID string)
	NotifyCommentsChanged(ctx context.Context, postID string)
}

// Service implements comment business logic on top of the repository
type Service interface {
	ListByPost(ctx context.Context, postID string) ([]Comment, error)
	Add(ctx context.Context, postID, userID, content string) (*Comment, error)
	Delete(ctx context.Context, commentID, userID string) error
}

type service struct {
	repo   Repository
	events Notifier
}

// NewService creates a new comments service
func NewService(repo Repository, events Notifier) Service {
	return &service{repo: repo, events: events}
}

func (s *service) ListByPost(ctx context.Context, postID string) ([]Comment, error) {
	if postID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPost(ctx, postID)
}

func (s *service) Add(ctx context.Context, postID, userID, content string) (*Comment, error) {
	if postID == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}

	comment, err := s.repo.Add(ctx, postID, userID, content)
	if err != nil {
		return nil, err
	}

	s.events.NotifyCommentsChanged(ctx, postID)
	// the counter lives on the post document
	s.events.NotifyPostChanged(ctx, postID)

	return comment, nil
}

func (s *service) Delete(ctx context.Context, commentID, userID string) error {
	postID, err := s.repo.Delete(ctx, commentID, userID)
	if err != nil {
		return err
	}

	s.events.NotifyCommentsChanged(ctx, postID)
	s.events.NotifyPostChanged(ctx, postID)
	return nil
}
