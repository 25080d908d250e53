package serviceaccount

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// RefreshSkew is how long before expiry a cached access token is replaced.
	RefreshSkew = 5 * time.Minute
)

// ExchangeError is returned when the token endpoint answers with a non-2xx status.
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: %d %s", e.StatusCode, e.Body)
}

// TokenSource mints access tokens by signing a fresh assertion on every call
// and trading it at the token endpoint. It never retries and never reuses an
// assertion; wrap it with Cached to avoid re-signing per dispatch.
type TokenSource struct {
	issuer   string
	key      *rsa.PrivateKey
	tokenURL string
	client   *http.Client
	now      func() time.Time
}

type Option func(*TokenSource)

// WithTokenURL overrides the OAuth token endpoint (also used as the audience).
func WithTokenURL(u string) Option {
	return func(ts *TokenSource) {
		if u != "" {
			ts.tokenURL = u
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(ts *TokenSource) {
		if c != nil {
			ts.client = c
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(ts *TokenSource) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenSource validates the credential's key up front so configuration
// problems surface before the first dispatch.
func NewTokenSource(cred *Credential, opts ...Option) (*TokenSource, error) {
	if cred == nil {
		return nil, fmt.Errorf("%w: nil credential", ErrInvalidCredential)
	}
	key, err := ParsePrivateKey(cred.PrivateKey)
	if err != nil {
		return nil, err
	}

	ts := &TokenSource{
		issuer:   cred.ClientEmail,
		key:      key,
		tokenURL: DefaultTokenURL,
		client:   http.DefaultClient,
		now:      time.Now,
	}
	if cred.TokenURI != "" {
		ts.tokenURL = cred.TokenURI
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts, nil
}

// Token implements oauth2.TokenSource.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	return ts.TokenContext(context.Background())
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenContext performs one assertion exchange.
func (ts *TokenSource) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	now := ts.now()
	assertion, err := SignAssertion(NewClaims(ts.issuer, ts.tokenURL, now), ts.key)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access_token")
	}

	lifetime := time.Duration(tr.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = AssertionLifetime
	}
	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tokenType,
		Expiry:      now.Add(lifetime),
	}, nil
}

// Cached reuses the last token until RefreshSkew before it expires. A
// refresh runs on the context of the call that triggered it when the
// wrapped source supports TokenContext.
func Cached(src oauth2.TokenSource) *CachedSource {
	return &CachedSource{src: src}
}

// CachedSource is the token cache returned by Cached.
type CachedSource struct {
	mu  sync.Mutex
	src oauth2.TokenSource
	tok *oauth2.Token
}

func (c *CachedSource) Token() (*oauth2.Token, error) {
	return c.TokenContext(context.Background())
}

func (c *CachedSource) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tok, err := oauth2.ReuseTokenSourceWithExpiry(c.tok, boundSource{ctx: ctx, src: c.src}, RefreshSkew).Token()
	if err != nil {
		return nil, err
	}
	c.tok = tok
	return tok, nil
}

// boundSource pins a context onto one refresh.
type boundSource struct {
	ctx context.Context
	src oauth2.TokenSource
}

func (b boundSource) Token() (*oauth2.Token, error) {
	if src, ok := b.src.(interface {
		TokenContext(context.Context) (*oauth2.Token, error)
	}); ok {
		return src.TokenContext(b.ctx)
	}
	return b.src.Token()
}
