package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteVerifier_ValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req["token"] != "good-token" {
			t.Errorf("Expected token good-token, got %q", req["token"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"userId": "user-42",
			"email":  "fan@example.com",
			"valid":  true,
		})
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL)

	id, err := v.Verify(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("Expected valid token, got error: %v", err)
	}
	if id.UserID != "user-42" {
		t.Errorf("Expected user-42, got %s", id.UserID)
	}
	if id.Email != "fan@example.com" {
		t.Errorf("Expected fan@example.com, got %s", id.Email)
	}
}

func TestRemoteVerifier_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": "Invalid token", "valid": false})
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL)

	if _, err := v.Verify(context.Background(), "bad-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestRemoteVerifier_ValidFalseBody(t *testing.T) {
	// A 200 with valid=false still counts as a rejection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"valid": false})
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL)

	if _, err := v.Verify(context.Background(), "bad-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestRemoteVerifier_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before use

	v := NewRemoteVerifier(srv.URL)

	if _, err := v.Verify(context.Background(), "any-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken when provider is down, got %v", err)
	}
}
