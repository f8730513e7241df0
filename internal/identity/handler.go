package identity

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for token verification
type Handler struct {
	verifier Verifier
}

// NewHandler creates a new identity handler
func NewHandler(verifier Verifier) *Handler {
	return &Handler{verifier: verifier}
}

type verifyRequest struct {
	Token string `json:"token"`
}

// VerifyToken handles POST /api/auth/verify
func (h *Handler) VerifyToken(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	id, err := h.verifier.Verify(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "valid": false})
			return
		}
		slog.Error("Token verification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token", "valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId": id.UserID,
		"email":  id.Email,
		"valid":  true,
	})
}
