package media

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Fake storage backed by func fields
type fakeStorage struct {
	presignUploadFunc   func(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	presignDownloadFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func (f *fakeStorage) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	return f.presignUploadFunc(ctx, key, contentType, ttl)
}

func (f *fakeStorage) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return f.presignDownloadFunc(ctx, key, ttl)
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeStorage) Health(ctx context.Context) error { return nil }

func newMediaRouter(storage Storage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(storage)

	r := gin.New()
	r.POST("/api/media/upload-url", h.UploadURL)
	r.POST("/api/media/download-url", h.DownloadURL)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadURL_Success(t *testing.T) {
	var gotKey, gotContentType string
	storage := &fakeStorage{
		presignUploadFunc: func(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
			gotKey = key
			gotContentType = contentType
			return "https://s3.example.com/presigned", nil
		},
	}
	r := newMediaRouter(storage)

	w := postJSON(t, r, "/api/media/upload-url", UploadURLRequest{
		Filename:    "stadium.png",
		ContentType: "image/png",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response UploadURLResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.UploadURL != "https://s3.example.com/presigned" {
		t.Errorf("Unexpected upload URL: %s", response.UploadURL)
	}
	if !strings.HasSuffix(response.FileKey, "-stadium.png") {
		t.Errorf("File key must keep the original filename, got %s", response.FileKey)
	}
	if response.FileKey != gotKey {
		t.Errorf("Response key %s does not match presigned key %s", response.FileKey, gotKey)
	}
	if gotContentType != "image/png" {
		t.Errorf("Expected content type image/png, got %s", gotContentType)
	}
	if response.ExpiresAt <= time.Now().Unix() {
		t.Error("Expiry must be in the future")
	}
}

func TestUploadURL_RejectsNonImages(t *testing.T) {
	r := newMediaRouter(&fakeStorage{})

	for _, contentType := range []string{"application/pdf", "text/html", "video/mp4"} {
		w := postJSON(t, r, "/api/media/upload-url", UploadURLRequest{
			Filename:    "file.bin",
			ContentType: contentType,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Content type %s: expected status 400, got %d", contentType, w.Code)
		}
	}
}

func TestUploadURL_RejectsBadFilenames(t *testing.T) {
	r := newMediaRouter(&fakeStorage{})

	bad := []string{
		"../../etc/passwd.png",
		"a/b.png",
		`a\b.png`,
		"noextension",
		strings.Repeat("x", 300) + ".png",
	}
	for _, filename := range bad {
		w := postJSON(t, r, "/api/media/upload-url", UploadURLRequest{
			Filename:    filename,
			ContentType: "image/png",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Filename %q: expected status 400, got %d", filename, w.Code)
		}
	}
}

func TestUploadURL_MissingFields(t *testing.T) {
	r := newMediaRouter(&fakeStorage{})

	w := postJSON(t, r, "/api/media/upload-url", map[string]string{"filename": "a.png"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without contentType, got %d", w.Code)
	}
}

func TestDownloadURL_Success(t *testing.T) {
	storage := &fakeStorage{
		presignDownloadFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
			if key != "abc-stadium.png" {
				t.Errorf("Expected key abc-stadium.png, got %s", key)
			}
			return "https://s3.example.com/download", nil
		},
	}
	r := newMediaRouter(storage)

	w := postJSON(t, r, "/api/media/download-url", DownloadURLRequest{FileKey: "abc-stadium.png"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response DownloadURLResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.DownloadURL != "https://s3.example.com/download" {
		t.Errorf("Unexpected download URL: %s", response.DownloadURL)
	}
}
