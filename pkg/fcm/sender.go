package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

const DefaultEndpoint = "https://fcm.googleapis.com/v1"

// Result is the provider's answer to one send. Raw is kept for diagnostics
// and returned to dispatch callers verbatim.
type Result struct {
	Name string
	Raw  map[string]interface{}
}

// Sender delivers one message. Implementations make exactly one attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) (*Result, error)
}

// SendError is returned when FCM answers with a non-2xx status.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("fcm send failed: %d %s", e.StatusCode, e.Body)
}

// HTTPSender talks to the FCM HTTP v1 API directly. The bearer token comes
// from the given source on every send; caching is the source's business.
type HTTPSender struct {
	client    *http.Client
	tokens    oauth2.TokenSource
	endpoint  string
	projectID string
	logger    zerolog.Logger
}

// contextTokenSource is satisfied by sources whose exchange honors the
// caller's context.
type contextTokenSource interface {
	TokenContext(ctx context.Context) (*oauth2.Token, error)
}

// NewHTTPSender creates a sender for projectID. An empty endpoint means DefaultEndpoint.
// ctx only supplies the base HTTP client (oauth2.HTTPClient) for sends.
func NewHTTPSender(ctx context.Context, projectID, endpoint string, ts oauth2.TokenSource, logger zerolog.Logger) *HTTPSender {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := http.DefaultClient
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil {
		client = c
	}
	return &HTTPSender{
		client:    client,
		tokens:    ts,
		endpoint:  strings.TrimRight(endpoint, "/"),
		projectID: projectID,
		logger:    logger,
	}
}

type sendRequest struct {
	Message *messaging.Message `json:"message"`
}

func (s *HTTPSender) token(ctx context.Context) (*oauth2.Token, error) {
	if src, ok := s.tokens.(contextTokenSource); ok {
		return src.TokenContext(ctx)
	}
	return s.tokens.Token()
}

func (s *HTTPSender) Send(ctx context.Context, msg Message) (*Result, error) {
	payload, err := json.Marshal(sendRequest{Message: msg.Firebase()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode FCM message: %w", err)
	}

	tok, err := s.token(ctx)
	if err != nil {
		return &Result{Raw: map[string]interface{}{"error": err.Error()}}, fmt.Errorf("failed to obtain access token: %w", err)
	}

	url := fmt.Sprintf("%s/projects/%s/messages:send", s.endpoint, s.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build FCM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tok.SetAuthHeader(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return &Result{Raw: map[string]interface{}{"error": err.Error()}}, fmt.Errorf("failed to send FCM message: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	result := &Result{Raw: map[string]interface{}{}}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result.Raw); err != nil {
			result.Raw = map[string]interface{}{"error": string(body)}
		}
	}
	if readErr != nil {
		result.Raw["error"] = fmt.Sprintf("reading FCM response: %v", readErr)
	}
	if name, ok := result.Raw["name"].(string); ok {
		result.Name = name
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn().Int("status", resp.StatusCode).Str("token", MaskToken(msg.Token())).Msg("FCM rejected message")
		return result, &SendError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if readErr != nil {
		return result, fmt.Errorf("failed to read FCM response: %w", readErr)
	}

	s.logger.Info().Str("name", result.Name).Str("kind", string(msg.Kind())).Msg("message sent")
	return result, nil
}

// AdminSender wraps Firebase Cloud Messaging functionality from the Admin SDK.
type AdminSender struct {
	messagingClient *messaging.Client
	logger          zerolog.Logger
}

// NewAdminSender initialises a Firebase app for projectID. Pass
// option.WithTokenSource to reuse the service account token source.
func NewAdminSender(ctx context.Context, projectID string, logger zerolog.Logger, opts ...option.ClientOption) (*AdminSender, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	logger.Info().Str("project", projectID).Msg("Firebase messaging client initialized")
	return &AdminSender{messagingClient: messagingClient, logger: logger}, nil
}

func (s *AdminSender) Send(ctx context.Context, msg Message) (*Result, error) {
	name, err := s.messagingClient.Send(ctx, msg.Firebase())
	if err != nil {
		s.logger.Warn().Err(err).Str("token", MaskToken(msg.Token())).Msg("FCM send failed")
		return &Result{Raw: map[string]interface{}{"error": err.Error()}}, fmt.Errorf("failed to send FCM message: %w", err)
	}

	s.logger.Info().Str("name", name).Str("kind", string(msg.Kind())).Msg("message sent")
	return &Result{Name: name, Raw: map[string]interface{}{"name": name}}, nil
}
