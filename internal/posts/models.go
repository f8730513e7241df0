package posts

import "time"

// Post is a feed entry with denormalized engagement counters. The counters
// mirror the number of like/comment rows referencing the post and are
// maintained in the same transaction as the child writes.
type Post struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	Likes     int64      `json:"likes"`
	Comments  int64      `json:"comments"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CreatePostRequest is the body of POST /api/posts
type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// UpdatePostRequest is the body of PUT /api/posts
type UpdatePostRequest struct {
	PostID   string `json:"postId" binding:"required"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// RecountRequest is the body of POST /api/posts/recount
type RecountRequest struct {
	PostID string `json:"postId" binding:"required"`
}

// ListResponse wraps the feed page returned by GET /api/posts
type ListResponse struct {
	Posts []Post `json:"posts"`
}
