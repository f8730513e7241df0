package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fanz/internal/database"
)

// ErrPostNotFound is returned when the referenced post does not exist.
var ErrPostNotFound = errors.New("post not found")

// Repository handles all database operations for likes
type Repository interface {
	Toggle(ctx context.Context, postID, userID string) (action string, err error)
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
}

type repository struct {
	db database.Service
}

// NewRepository creates a new likes repository
func NewRepository(db database.Service) Repository {
	return &repository{db: db}
}

// Toggle likes the post if no like row exists for (post, user), otherwise
// unlikes it. The insert races through the unique index instead of a
// check-then-act lookup: of two concurrent toggles by the same user exactly
// one insert wins, so the outcomes stay deterministic. The counter moves in
// the same transaction as the like row.
func (r *repository) Toggle(ctx context.Context, postID, userID string) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin toggle like: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO likes (id, post_id, user_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	tag, err := tx.Exec(ctx, insert, uuid.New().String(), postID, userID)
	if err != nil {
		return "", fmt.Errorf("insert like: %w", err)
	}

	var action string
	if tag.RowsAffected() == 1 {
		action = ActionLiked
		counter, err := tx.Exec(ctx, `UPDATE posts SET likes = likes + 1 WHERE id = $1`, postID)
		if err != nil {
			return "", fmt.Errorf("increment like counter: %w", err)
		}
		if counter.RowsAffected() == 0 {
			return "", ErrPostNotFound
		}
	} else {
		action = ActionUnliked
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
			return "", fmt.Errorf("delete like: %w", err)
		}
		const q = `UPDATE posts SET likes = GREATEST(likes - 1, 0) WHERE id = $1`
		if _, err := tx.Exec(ctx, q, postID); err != nil {
			return "", fmt.Errorf("decrement like counter: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit toggle like: %w", err)
	}
	return action, nil
}

func (r *repository) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	const q = `SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2`
	var one int
	err := r.db.QueryRow(ctx, q, postID, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return true, nil
}
