package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"docemania/config"
	"docemania/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	pathLogin  = "/v1/auth/login"
	pathLogout = "/v1/auth/logout"
)

var ErrNoSession = errors.New("no admin session")

// Session is the token pair returned by login. It is passed to the client
// explicitly; nothing about it is stored globally.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (s *Session) authorization() string {
	tokenType := s.TokenType
	if tokenType == constant.Empty {
		tokenType = "Bearer"
	}

	return tokenType + " " + s.AccessToken
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
	Error   *string         `json:"error"`
}

// File is an upload part. ContentType is sent as the part's Content-Type.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Client talks to the backend as an admin. Requests authenticate only through
// the Session; the service API key is never sent.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

func New(cfg *config.Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(cfg.Client.TimeoutSeconds) * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.Client.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// WithSession returns a copy of the client that authenticates with session.
func (c *Client) WithSession(session Session) *Client {
	clone := *c
	clone.session = &session

	return &clone
}

func (c *Client) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}

	return *c.session, true
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var session Session

	err := c.Do(ctx, http.MethodPost, pathLogin, nil, loginRequest{Email: email, Password: password}, &session)
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (c *Client) Logout(ctx context.Context) error {
	if c.session == nil {
		return ErrNoSession
	}

	return c.Do(ctx, http.MethodPost, pathLogout, nil, logoutRequest{RefreshToken: c.session.RefreshToken}, nil)
}

// Do sends body as JSON and decodes the "data" member of the answer into out.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	}

	return c.send(req, out)
}

// Upload posts files as multipart/form-data, one part per field name.
func (c *Client) Upload(ctx context.Context, path string, files map[string]File, out any) error {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for field, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(file.Name)))
		header.Set(constant.RequestHeaderContentType, file.ContentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("failed to create form part: %w", err)
		}

		if _, err := io.Copy(part, file.Body); err != nil {
			return fmt.Errorf("failed to write form part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, buf)
	if err != nil {
		return err
	}

	req.Header.Set(constant.RequestHeaderContentType, writer.FormDataContentType())

	return c.send(req, out)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if c.session != nil {
		req.Header.Set(constant.RequestHeaderAuthorization, c.session.authorization())
	}

	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("request failed")

		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < http.StatusBadRequest {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(env, resp.Status)}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}

	return nil
}

func errorMessage(env envelope, status string) string {
	switch {
	case env.Error != nil:
		return *env.Error
	case env.Message != nil:
		return *env.Message
	default:
		return status
	}
}
