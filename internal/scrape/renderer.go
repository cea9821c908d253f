package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Renderer calls Cloudflare Browser Rendering REST API to fetch pages that
// need JavaScript before their article body exists in the DOM.
// See: https://developers.cloudflare.com/browser-rendering/rest-api/
type Renderer struct {
	baseURL string
	token   string
	http    *http.Client
}

type contentRequest struct {
	URL                  string   `json:"url"`
	RejectRequestPattern []string `json:"rejectRequestPattern,omitempty"`
}

type contentResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
	Errors  any    `json:"errors"`
}

// NewRenderer creates a client from an account ID.
// Endpoint: https://api.cloudflare.com/client/v4/accounts/<ACCOUNT_ID>/browser-rendering/content
func NewRenderer(accountID, token string, timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	baseURL := fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/browser-rendering/content", strings.TrimSpace(accountID))
	return &Renderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Render returns the fully rendered HTML for a URL.
func (r *Renderer) Render(ctx context.Context, u string) (string, error) {
	if r == nil {
		return "", errors.New("nil renderer")
	}
	if _, err := url.ParseRequestURI(u); err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	body, _ := json.Marshal(contentRequest{
		URL:                  u,
		RejectRequestPattern: []string{"/^.*\\.(css)/"},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("cloudflare render failed: status=%d body=%s", resp.StatusCode, string(b))
	}
	var envelope contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if !envelope.Success {
		return "", fmt.Errorf("cloudflare render failed: %v", envelope.Errors)
	}
	return envelope.Result, nil
}
