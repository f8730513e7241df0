package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fanz/internal/database"
)

var (
	// ErrPostNotFound is returned when the post id does not resolve
	ErrPostNotFound = errors.New("post not found")
	// ErrNotOwner is returned when the caller is not the post's author
	ErrNotOwner = errors.New("not the post owner")
)

const postColumns = `id, user_id, content, image_url, likes, comments, created_at, updated_at`

// Repository handles all database operations for posts
type Repository interface {
	Create(ctx context.Context, userID, content, imageURL string) (*Post, error)
	GetByID(ctx context.Context, postID string) (*Post, error)
	List(ctx context.Context, pageSize int, lastID string) ([]Post, error)
	Update(ctx context.Context, postID, userID, content, imageURL string) error
	Delete(ctx context.Context, postID, userID string) error
	Recount(ctx context.Context, postID string) (*Post, error)
}

type repository struct {
	db database.Service
}

// NewRepository creates a new posts repository
func NewRepository(db database.Service) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID, content, imageURL string) (*Post, error) {
	post := &Post{
		ID:       uuid.New().String(),
		UserID:   userID,
		Content:  content,
		ImageURL: imageURL,
	}

	const q = `
		INSERT INTO posts (id, user_id, content, image_url, likes, comments, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), 0, 0, NOW())
		RETURNING likes, comments, created_at
	`
	err := r.db.QueryRow(ctx, q, post.ID, post.UserID, post.Content, post.ImageURL).
		Scan(&post.Likes, &post.Comments, &post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return post, nil
}

func (r *repository) GetByID(ctx context.Context, postID string) (*Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, q, postID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// List returns the newest pageSize posts. When lastID resolves to an existing
// post, the page starts strictly after it in (created_at, id) order; when it
// does not resolve (deleted between pages, or empty), the cursor is dropped
// and listing restarts from the top.
func (r *repository) List(ctx context.Context, pageSize int, lastID string) ([]Post, error) {
	if lastID != "" {
		var cursorCreatedAt time.Time
		var cursorID string
		err := r.db.QueryRow(ctx, `SELECT created_at, id FROM posts WHERE id = $1`, lastID).
			Scan(&cursorCreatedAt, &cursorID)
		switch {
		case err == nil:
			const q = `
				SELECT ` + postColumns + `
				FROM posts
				WHERE (created_at, id) < ($1, $2)
				ORDER BY created_at DESC, id DESC
				LIMIT $3
			`
			rows, err := r.db.Query(ctx, q, cursorCreatedAt, cursorID, pageSize)
			if err != nil {
				return nil, fmt.Errorf("query posts after cursor: %w", err)
			}
			return scanPosts(rows)
		case errors.Is(err, pgx.ErrNoRows):
			// cursor post is gone; fall through to the first page
		default:
			return nil, fmt.Errorf("resolve cursor: %w", err)
		}
	}

	const q = `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, q, pageSize)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	return scanPosts(rows)
}

func (r *repository) Update(ctx context.Context, postID, userID, content, imageURL string) error {
	owner, err := r.ownerOf(ctx, postID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrNotOwner
	}

	const q = `
		UPDATE posts
		SET content = $1, image_url = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $3
	`
	if _, err := r.db.Exec(ctx, q, content, imageURL, postID); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes the post together with its comments and likes in one
// transaction.
func (r *repository) Delete(ctx context.Context, postID, userID string) error {
	owner, err := r.ownerOf(ctx, postID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrNotOwner
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete post: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("delete post likes: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete post: %w", err)
	}
	return nil
}

// Recount recomputes both counters from the child tables. Repair operation
// for rows written before counter updates became transactional.
func (r *repository) Recount(ctx context.Context, postID string) (*Post, error) {
	const q = `
		UPDATE posts
		SET likes    = (SELECT COUNT(*) FROM likes    WHERE post_id = posts.id),
		    comments = (SELECT COUNT(*) FROM comments WHERE post_id = posts.id)
		WHERE id = $1
		RETURNING ` + postColumns + `
	`
	post, err := scanPost(r.db.QueryRow(ctx, q, postID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("recount post: %w", err)
	}
	return post, nil
}

func (r *repository) ownerOf(ctx context.Context, postID string) (string, error) {
	var owner string
	err := r.db.QueryRow(ctx, `SELECT user_id FROM posts WHERE id = $1`, postID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrPostNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get post owner: %w", err)
	}
	return owner, nil
}

func scanPost(row pgx.Row) (*Post, error) {
	var post Post
	var imageURL *string
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&imageURL,
		&post.Likes,
		&post.Comments,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL != nil {
		post.ImageURL = *imageURL
	}
	return &post, nil
}

func scanPosts(rows pgx.Rows) ([]Post, error) {
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		var post Post
		var imageURL *string
		if err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.Content,
			&imageURL,
			&post.Likes,
			&post.Comments,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if imageURL != nil {
			post.ImageURL = *imageURL
		}
		out = append(out, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}
