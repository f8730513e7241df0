package likes

import (
	"context"
	"errors"
)

// ErrInvalidInput is returned when the post id is missing.
var ErrInvalidInput = errors.New("post id is required")

// Notifier announces like-counter changes to the real-time layer.
type Notifier interface {
	NotifyPostChanged(ctx context.Context, postID string)
}

// Service implements like business logic on top of the repository
type Service interface {
	Toggle(ctx context.Context, postID, userID string) (string, error)
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
}

type service struct {
	repo   Repository
	events Notifier
}

// NewService creates a new likes service
func NewService(repo Repository, events Notifier) Service {
	return &service{repo: repo, events: events}
}

func (s *service) Toggle(ctx context.Context, postID, userID string) (string, error) {
	if postID == "" {
		return "", ErrInvalidInput
	}

	action, err := s.repo.Toggle(ctx, postID, userID)
	if err != nil {
		return "", err
	}

	s.events.NotifyPostChanged(ctx, postID)
	return action, nil
}

func (s *service) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	if postID == "" {
		return false, ErrInvalidInput
	}
	return s.repo.HasLiked(ctx, postID, userID)
}
