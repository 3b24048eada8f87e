// Package supabase is a minimal client for the Supabase auth (GoTrue)
// HTTP API: token verification, password sign-in and administrative
// user creation.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second

	// Bounded retry for the one genuine external-network dependency:
	// only transient failures (429/5xx/transport errors) are retried.
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
)

// User is the provider's view of an account. Raw keeps the untouched
// response body for metadata capture at link time.
type User struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Raw   json.RawMessage `json:"-"`
}

// Session is the provider-issued session returned by password sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// AuthAPI is the slice of the provider surface the application needs.
// Handlers and the reconciler depend on this interface so tests can
// substitute fakes.
type AuthAPI interface {
	GetUser(ctx context.Context, accessToken string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
}

// APIError is a non-2xx response from the provider, carrying the
// provider's own message where one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("supabase: request failed with status %d", e.Status)
}

type Config struct {
	URL        string // e.g. https://xyzcompany.supabase.co
	AnonKey    string
	ServiceKey string
}

type Client struct {
	config Config
	http   *http.Client
}

func NewClient(config Config) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: defaultTimeout},
	}
}

// GetUser exchanges an access token for the provider's canonical user
// record.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, err
	}
	return decodeUser(body)
}

// SignUp creates a provider user through the admin API with the email
// already confirmed, so the account is usable immediately.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	payload := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}

	body, err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", c.config.ServiceKey, payload)
	if err != nil {
		return nil, err
	}
	return decodeUser(body)
}

// SignInWithPassword performs the password grant and returns the
// provider session together with its user record.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	body, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", payload)
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}

	if session.AccessToken == "" {
		return nil, errors.New("empty access token in response")
	}

	// Raw must hold only the user sub-document. The grant envelope
	// around it carries the refresh token, which must never reach
	// persistent storage.
	var envelope struct {
		User json.RawMessage `json:"user"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil {
		session.User.Raw = envelope.User
	}

	return &session, nil
}

func decodeUser(body []byte) (*User, error) {
	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}

	if user.ID == "" {
		return nil, errors.New("missing user id in response")
	}

	user.Raw = body

	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload interface{}) ([]byte, error) {
	var encoded []byte

	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		body, retryable, err := c.doOnce(ctx, method, path, bearer, encoded)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path, bearer string, encoded []byte) ([]byte, bool, error) {
	var reqBody io.Reader

	if encoded != nil {
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.URL+path, reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.config.AnonKey)

	if encoded != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, false, nil
	}

	apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(body)}
	retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500

	return nil, retryable, apiErr
}

// extractMessage pulls a human-readable message out of the provider's
// error body; GoTrue uses several field names across endpoints.
func extractMessage(body []byte) string {
	var parsed struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	switch {
	case parsed.Msg != "":
		return parsed.Msg
	case parsed.Message != "":
		return parsed.Message
	default:
		return parsed.ErrorDescription
	}
}
