package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteVerifier delegates verification to the auth provider's verify
// endpoint. Any non-200 response or transport failure surfaces as
// ErrInvalidToken; callers never distinguish the failure subtype.
type RemoteVerifier struct {
	verifyURL string
	client    *http.Client
}

// NewRemoteVerifier creates a verifier that POSTs tokens to the given URL.
func NewRemoteVerifier(verifyURL string) *RemoteVerifier {
	return &RemoteVerifier{
		verifyURL: verifyURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type remoteVerifyRequest struct {
	Token string `json:"token"`
}

type remoteVerifyResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Valid  bool   `json:"valid"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, ErrInvalidToken
	}

	body, err := json.Marshal(remoteVerifyRequest{Token: rawToken})
	if err != nil {
		return nil, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, ErrInvalidToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var result remoteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, ErrInvalidToken
	}
	if !result.Valid || result.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: result.UserID, Email: result.Email}, nil
}
