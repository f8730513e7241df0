package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fanz/internal/database"
)

var (
	// ErrCommentNotFound is returned when the comment id does not resolve
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotOwner is returned when the caller is not the comment's author
	ErrNotOwner = errors.New("not the comment owner")
	// ErrPostNotFound is returned when the referenced post does not exist
	ErrPostNotFound = errors.New("post not found")
)

// Repository handles all database operations for comments
type Repository interface {
	ListByPost(ctx context.Context, postID string) ([]Comment, error)
	Add(ctx context.Context, postID, userID, content string) (*Comment, error)
	Delete(ctx context.Context, commentID, userID string) (postID string, err error)
}

type repository struct {
	db database.Service
}

// NewRepository creates a new comments repository
func NewRepository(db database.Service) Repository {
	return &repository{db: db}
}

func (r *repository) ListByPost(ctx context.Context, postID string) ([]Comment, error) {
	const q = `
		SELECT id, post_id, user_id, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, q, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	out := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}

// Add inserts the comment and increments the parent counter in one
// transaction, so the counter cannot drift from the true count.
func (r *repository) Add(ctx context.Context, postID, userID, content string) (*Comment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add comment: %w", err)
	}
	defer tx.Rollback(ctx)

	comment := &Comment{
		ID:      uuid.New().String(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	const insert = `
		INSERT INTO comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, insert, comment.ID, comment.PostID, comment.UserID, comment.Content).
		Scan(&comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE posts SET comments = comments + 1 WHERE id = $1`, postID)
	if err != nil {
		return nil, fmt.Errorf("increment comment counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPostNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit add comment: %w", err)
	}
	return comment, nil
}

// Delete removes the comment and decrements the parent counter in one
// transaction. The parent post id comes from the comment row itself, not
// from the caller.
func (r *repository) Delete(ctx context.Context, commentID, userID string) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin delete comment: %w", err)
	}
	defer tx.Rollback(ctx)

	var postID, owner string
	err = tx.QueryRow(ctx, `SELECT post_id, user_id FROM comments WHERE id = $1 FOR UPDATE`, commentID).
		Scan(&postID, &owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrCommentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get comment: %w", err)
	}
	if owner != userID {
		return "", ErrNotOwner
	}

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return "", fmt.Errorf("delete comment: %w", err)
	}

	const q = `UPDATE posts SET comments = GREATEST(comments - 1, 0) WHERE id = $1`
	if _, err := tx.Exec(ctx, q, postID); err != nil {
		return "", fmt.Errorf("decrement comment counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit delete comment: %w", err)
	}
	return postID, nil
}
