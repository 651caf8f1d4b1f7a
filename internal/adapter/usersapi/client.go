package usersapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "user-console/internal/domain/user"
	"user-console/internal/usecase/user"
	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
)

// maxErrorBody caps how much of a failed response body is kept for logs.
const maxErrorBody = 4 << 10

// Config holds the users API connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the REST client of the remote /users collection.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a users API client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

var _ user.Repository = (*Client)(nil)

// GetAll fetches every user.
func (c *Client) GetAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, "list users", http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Create posts a new user. The body carries no id.
func (c *Client) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	var created domain.User
	if err := c.do(ctx, "create user", http.MethodPost, "/users", newUserBody(u), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByEmail fetches the list and keeps exact email matches.
func (c *Client) GetByEmail(ctx context.Context, email string) ([]domain.User, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.User, 0, 1)
	for _, u := range all {
		if u.Email == email {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

// DeleteByID deletes one user.
func (c *Client) DeleteByID(ctx context.Context, id int64) error {
	return c.do(ctx, "delete user", http.MethodDelete, userPath(id), nil, nil)
}

// UpdateByID puts the full user body.
func (c *Client) UpdateByID(ctx context.Context, id int64, u domain.User) (*domain.User, error) {
	u.ID = id
	var updated domain.User
	if err := c.do(ctx, "update user", http.MethodPut, userPath(id), u, &updated); err != nil {
		return nil, err
	}
	if updated.ID == 0 {
		updated = u
	}
	return &updated, nil
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

// userBody is the POST payload, which must not carry an id.
type userBody struct {
	Name     string         `json:"name"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	Website  string         `json:"website"`
	Address  domain.Address `json:"address"`
	Company  domain.Company `json:"company"`
}

func newUserBody(u domain.User) userBody {
	return userBody{
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Website:  u.Website,
		Address:  u.Address,
		Company:  u.Company,
	}
}

// do performs one request. Non-2xx answers become *apperrors.RemoteError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	log := logger.WithContext(ctx, c.log).With(zap.String("operation", op), zap.String("method", method), zap.String("path", path))

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("users API request failed", zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	log.Debug("users API response", zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("users API returned error status", zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return apperrors.NewRemoteError(op, resp.StatusCode, string(raw))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	// Some backends answer PUT/POST with an empty body.
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Error("failed to decode users API response", zap.Error(err))
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
