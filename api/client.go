package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/interu-app/interu-cli/session"
)

// maxResponseSize limits response body reads to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// refreshPath is the auth service endpoint that mints new access tokens.
const refreshPath = "/auth/jwt/refresh/"

// Client issues requests against the InterU API, injecting the bearer token
// from the session store on authenticated calls and classifying failures
// into the package's error taxonomy. A 401 on an authenticated call triggers exactly one credential
// refresh followed by one retry; concurrent refreshes are deduplicated so a
// burst of expired calls shares a single refresh round trip.
type Client struct {
	baseURL    string
	store      *session.Store
	httpClient *http.Client
	logger     *slog.Logger

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the API at baseURL (including any mount
// prefix, e.g. "https://api.interu.app/api"). The session store supplies
// credentials; it is read before each request, never cached.
func NewClient(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get issues a GET without credentials. Used for public reads like the
// publications feed; a stored session, stale or not, never touches these
// requests.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, false)
}

// Post issues a POST without credentials. Used for the public auth
// endpoints (login, register, activation, password resets).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

// GetAuthed issues a GET that fails with ErrUnauthenticated, without a
// network call, when no session is stored.
func (c *Client) GetAuthed(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// PostAuthed issues an authenticated POST.
func (c *Client) PostAuthed(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

// PatchAuthed issues an authenticated PATCH.
func (c *Client) PatchAuthed(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out, true)
}

// DeleteAuthed issues an authenticated DELETE. A body is allowed: the
// account deletion endpoint re-checks the password from the request body.
func (c *Client) DeleteAuthed(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, out, true)
}

// do runs one request and decodes the response into out when non-nil.
// Authenticated requests go through the refresh-retry decorator; public
// ones carry no Authorization header at all, so a stale stored token can
// never fail a login or a public read.
func (c *Client) do(ctx context.Context, method, path string, body, out any, requireAuth bool) error {
	if !requireAuth {
		respBody, err := c.roundTrip(ctx, method, path, "", body)
		if err != nil {
			return err
		}
		return decodeInto(respBody, out)
	}

	token, err := c.store.AccessToken()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return ErrUnauthenticated
		}
		return err
	}

	respBody, err := c.roundTrip(ctx, method, path, token, body)
	if errors.Is(err, ErrUnauthenticated) {
		newToken, refreshErr := c.Refresh(ctx)
		if refreshErr != nil {
			return refreshErr
		}
		respBody, err = c.roundTrip(ctx, method, path, newToken, body)
		if errors.Is(err, ErrUnauthenticated) {
			return fmt.Errorf("%w: request rejected after refresh", ErrSessionExpired)
		}
	}
	if err != nil {
		return err
	}
	return decodeInto(respBody, out)
}

func decodeInto(respBody []byte, out any) error {
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new access token and
// writes it back to the session store, leaving the refresh token unchanged.
// A missing refresh token yields ErrUnauthenticated; a rejected one yields
// ErrSessionExpired with the stored tokens untouched. Concurrent callers
// share a single in-flight exchange.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	v, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug("credential refresh shared with concurrent caller")
	}
	return v.(string), nil
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	sess, err := c.store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return "", ErrUnauthenticated
		}
		return "", err
	}
	if sess.RefreshToken == "" {
		return "", ErrUnauthenticated
	}

	body, err := c.roundTrip(ctx, http.MethodPost, refreshPath, "", map[string]string{
		"refresh": sess.RefreshToken,
	})
	if err != nil {
		if IsNetworkError(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	var parsed struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if parsed.Access == "" {
		return "", &RequestFailed{Status: http.StatusOK, Body: "refresh response missing access token"}
	}

	if err := c.store.SetAccessToken(parsed.Access); err != nil {
		return "", fmt.Errorf("store refreshed token: %w", err)
	}
	return parsed.Access, nil
}

// roundTrip executes a single HTTP request and classifies the outcome.
func (c *Client) roundTrip(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	requestID := uuid.New().String()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"authenticated", token != "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewNetworkError(fmt.Errorf("read response body: %w", err))
	}

	c.logger.Debug("api response",
		"request_id", requestID,
		"status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	return nil, classifyStatus(resp.StatusCode, respBody)
}

// classifyStatus maps a non-2xx response to the error taxonomy.
func classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		if detail := responseDetail(body); detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthenticated, detail)
		}
		return ErrUnauthenticated
	case http.StatusForbidden:
		if detail := responseDetail(body); detail != "" {
			return fmt.Errorf("%w: %s", ErrForbidden, detail)
		}
		return ErrForbidden
	case http.StatusBadRequest:
		if fields := parseFieldErrors(body); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		return &RequestFailed{Status: status, Body: string(body)}
	default:
		return &RequestFailed{Status: status, Body: string(body)}
	}
}

// responseDetail extracts the "detail" message DRF puts on auth errors.
func responseDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Detail
}

// parseFieldErrors normalizes a DRF validation body ({"field": ["msg"]})
// into a field-to-messages map. A plain "detail" body is not field-keyed
// and yields nil.
func parseFieldErrors(body []byte) map[string][]string {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	fields := make(map[string][]string)
	for key, value := range raw {
		if key == "detail" {
			continue
		}
		switch v := value.(type) {
		case string:
			fields[key] = []string{v}
		case []any:
			var msgs []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				fields[key] = msgs
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
