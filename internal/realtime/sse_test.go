package realtime

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestOffer_CoalescesToNewest(t *testing.T) {
	ch := make(chan int, 1)

	offer(ch, 1)
	offer(ch, 2)
	offer(ch, 3)

	if got := <-ch; got != 3 {
		t.Errorf("Expected the newest value 3, got %d", got)
	}
	select {
	case v := <-ch:
		t.Errorf("Expected channel drained, got %d", v)
	default:
	}
}

func TestStreamComments_RequiresPostID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub, _ := newTestHub(t)
	h := NewSSEHandler(hub)

	r := gin.New()
	r.GET("/api/realtime/comments", h.StreamComments)
	r.GET("/api/realtime/likes", h.StreamLikeCount)
	r.GET("/api/realtime/comments/count", h.StreamCommentCount)

	for _, url := range []string{
		"/api/realtime/comments",
		"/api/realtime/likes",
		"/api/realtime/comments/count",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("URL %s: expected status 400, got %d", url, w.Code)
		}
	}
}
