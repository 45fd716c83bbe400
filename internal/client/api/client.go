// Package api implements the typed HTTP client for the Noteleaf server.
// All methods honor context cancellation and map server error bodies onto
// the shared sentinel errors via APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a thin typed wrapper over the server's HTTP API. A bearer token
// set with SetToken is attached to every subsequent request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient returns a Client for the given base URL, e.g. "http://127.0.0.1:8080".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken stores the bearer token used for authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ClearToken drops the stored bearer token.
func (c *Client) ClearToken() {
	c.token = ""
}

// Token returns the currently stored bearer token, empty if not logged in.
func (c *Client) Token() string {
	return c.token
}

// do performs a JSON request and decodes the response body into out
// (if out is non-nil). Non-2xx responses are returned as *APIError;
// transport failures are wrapped in ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Ping checks server liveness via the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Register creates a new account and returns the issued token and user.
func (c *Client) Register(ctx context.Context, email, password string, name *string) (*AuthResponse, error) {
	req := map[string]any{"email": email, "password": password}
	if name != nil {
		req["name"] = *name
	}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	req := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleAuthURL returns the Google consent page URL to open in a browser.
func (c *Client) GoogleAuthURL(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/google/url", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// GoogleAuth exchanges a Google authorization code for a session.
func (c *Client) GoogleAuth(ctx context.Context, code string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/google", map[string]string{"code": code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword requests a password reset code for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using the emailed reset code.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	req := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", req, nil)
}

// CreateNote creates a server note for the logged-in user.
func (c *Client) CreateNote(ctx context.Context, title, content string, tags []string) (*Note, error) {
	req := map[string]any{"title": title, "content": content, "tags": tags}
	var note Note
	if err := c.do(ctx, http.MethodPost, "/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNote returns a single note by id.
func (c *Client) GetNote(ctx context.Context, id string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote overwrites title, content and tags of a note.
func (c *Client) UpdateNote(ctx context.Context, id, title, content string, tags []string) (*Note, error) {
	req := map[string]any{"title": title, "content": content, "tags": tags}
	var note Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

// ToggleFavorite flips the favorite flag of a note and returns the new state.
func (c *Client) ToggleFavorite(ctx context.Context, id string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id)+"/favorite", nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ListNotes returns one page of the user's notes.
func (c *Client) ListNotes(ctx context.Context, params ListParams) (*NotePage, error) {
	q := url.Values{}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if len(params.Tags) > 0 {
		q.Set("tags", strings.Join(params.Tags, ","))
	}
	if params.FavoritesOnly {
		q.Set("favorites", "true")
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.SortAsc {
		q.Set("sortOrder", "asc")
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	path := "/notes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page NotePage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ConvertLocal submits cached notes for conversion into server notes.
// The server converts the whole batch in one transaction, so either all
// notes come back converted or none do.
func (c *Client) ConvertLocal(ctx context.Context, payloads []LocalNotePayload) ([]Note, error) {
	var resp struct {
		Message string `json:"message"`
		Notes   []Note `json:"notes"`
	}
	req := map[string]any{"notes": payloads}
	if err := c.do(ctx, http.MethodPost, "/notes/convert-local", req, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}
