package comments

import "time"

// Comment belongs to a post; the parent's comments counter moves with every
// insert/delete in the same transaction.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCommentRequest is the body of POST /api/comments
type CreateCommentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

// ListResponse wraps the comments returned by GET /api/comments
type ListResponse struct {
	Comments []Comment `json:"comments"`
}
