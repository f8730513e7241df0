package likes

import "time"

// Actions reported by a toggle.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// Like marks that a user liked a post. At most one row exists per
// (post, user) pair, enforced by a unique index.
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToggleRequest is the body of POST /api/likes
type ToggleRequest struct {
	PostID string `json:"postId"`
}

// ToggleResponse reports which way the toggle went
type ToggleResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
}

// LikedResponse is returned by GET /api/likes
type LikedResponse struct {
	Liked bool `json:"liked"`
}
