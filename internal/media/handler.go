package media

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxFilenameLength = 255
	uploadTTL         = 15 * time.Minute
	downloadTTL       = 1 * time.Hour
)

// Post images only.
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Handler handles HTTP requests for media uploads
type Handler struct {
	storage Storage
}

// NewHandler creates a new media handler
func NewHandler(storage Storage) *Handler {
	return &Handler{storage: storage}
}

// UploadURLRequest is the body of POST /api/media/upload-url
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// UploadURLResponse carries the presigned upload target
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	ExpiresAt int64  `json:"expiresAt"`
}

// DownloadURLRequest is the body of POST /api/media/download-url
type DownloadURLRequest struct {
	FileKey string `json:"fileKey" binding:"required"`
}

// DownloadURLResponse carries the presigned download target
type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// UploadURL handles POST /api/media/upload-url
func (h *Handler) UploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if err := validateFilename(req.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowedContentTypes[req.ContentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("content type %s is not allowed", req.ContentType)})
		return
	}

	fileKey := fmt.Sprintf("%s-%s", uuid.New().String(), req.Filename)

	uploadURL, err := h.storage.PresignUpload(c.Request.Context(), fileKey, req.ContentType, uploadTTL)
	if err != nil {
		slog.Error("Failed to presign upload", "file_key", fileKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, UploadURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(uploadTTL).Unix(),
	})
}

// DownloadURL handles POST /api/media/download-url
func (h *Handler) DownloadURL(c *gin.Context) {
	var req DownloadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	downloadURL, err := h.storage.PresignDownload(c.Request.Context(), req.FileKey, downloadTTL)
	if err != nil {
		slog.Error("Failed to presign download", "file_key", req.FileKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL"})
		return
	}

	c.JSON(http.StatusOK, DownloadURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   time.Now().Add(downloadTTL).Unix(),
	})
}

func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if len(filename) > maxFilenameLength {
		return fmt.Errorf("filename too long (max %d characters)", maxFilenameLength)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("filename contains invalid characters")
	}
	if filepath.Ext(filename) == "" {
		return fmt.Errorf("filename must have an extension")
	}
	return nil
}
