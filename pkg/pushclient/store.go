package pushclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIStore persists tokens through the backend HTTP API. The user is
// identified by the bearer access token, so userID is only used for logging
// by callers.
type APIStore struct {
	baseURL     string
	accessToken string
	deviceInfo  string
	client      *http.Client
}

func NewAPIStore(baseURL, accessToken, deviceInfo string, client *http.Client) *APIStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIStore{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		deviceInfo:  deviceInfo,
		client:      client,
	}
}

func (s *APIStore) SaveToken(ctx context.Context, userID, token string) error {
	body, err := json.Marshal(map[string]string{
		"token":       token,
		"device_info": s.deviceInfo,
	})
	if err != nil {
		return err
	}
	return s.do(ctx, http.MethodPut, body)
}

func (s *APIStore) ClearToken(ctx context.Context, userID string) error {
	return s.do(ctx, http.MethodDelete, nil)
}

func (s *APIStore) do(ctx context.Context, method string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/api/push/token", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push token request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// FetchWebConfig loads the public messaging configuration from the backend.
func FetchWebConfig(ctx context.Context, client *http.Client, baseURL string) (WebConfig, error) {
	var cfg WebConfig
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/push/config", nil)
	if err != nil {
		return cfg, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return cfg, fmt.Errorf("fetching push config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cfg, fmt.Errorf("fetching push config: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding push config: %w", err)
	}
	return cfg, nil
}
