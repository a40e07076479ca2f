// Package apiclient is the JSON-over-HTTP transport shared by every
// repository. It attaches the bearer token read from the session at call time
// and turns any 401 on an authenticated request into a forced logout.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/contextutil"
	"go-hrm/internal/shared/response"

	"go.uber.org/zap"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"

	maxBodyBytes = 1 << 20
)

// SessionHooks is implemented by the session manager.
type SessionHooks interface {
	Token() string
	// HandleUnauthorized receives the token the rejected request carried.
	HandleUnauthorized(ctx context.Context, token string)
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	hooks   SessionHooks
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the underlying client (tests use the httptest one).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.Named("apiclient")
		}
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		logger:  zap.L().Named("apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind attaches the session. It is separate from New because the session
// manager itself depends on a repository built on this client.
func (c *Client) Bind(hooks SessionHooks) {
	c.hooks = hooks
}

type requestOptions struct {
	public         bool
	idempotencyKey string
}

type RequestOption func(*requestOptions)

// Public marks a request that must not carry the bearer token and whose 401
// is an ordinary error rather than a session expiry (sign-in).
func Public() RequestOption {
	return func(o *requestOptions) { o.public = true }
}

func WithIdempotencyKey(key string) RequestOption {
	return func(o *requestOptions) { o.idempotencyKey = key }
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Do sends one request and decodes the (unwrapped) payload into out when out
// is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctx, rid := contextutil.EnsureRequestID(ctx)
	logger := contextutil.GetLogger(ctx, c.logger).With(
		zap.String("request_id", rid),
		zap.String("method", method),
		zap.String("path", path),
	)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeInvalidInput, "Invalid request", 0)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidInput, "Invalid request", 0)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderRequestID, rid)
	if o.idempotencyKey != "" {
		req.Header.Set(HeaderIdempotencyKey, o.idempotencyKey)
	}

	sentToken := ""
	if !o.public && c.hooks != nil {
		// read at call time, never cached
		sentToken = c.hooks.Token()
		if sentToken != "" {
			req.Header.Set("Authorization", "Bearer "+sentToken)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("request failed", zap.Error(err))
		return apperror.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("read response failed", zap.Error(err))
		return apperror.Network(err)
	}
	logger.Debug("request done",
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := response.ErrorMessage(raw)
		appErr := apperror.FromStatus(resp.StatusCode, msg)
		if resp.StatusCode == http.StatusUnauthorized && sentToken != "" {
			logger.Warn("session rejected by server")
			// the hook gets a context that outlives the request timeout
			c.hooks.HandleUnauthorized(context.WithoutCancel(ctx), sentToken)
			appErr = apperror.New(apperror.CodeUnauthorized, apperror.MsgUnauthorize, resp.StatusCode)
		}
		return appErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(response.Payload(raw), out); err != nil {
		logger.Warn("decode response failed", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInvalidState, "Unexpected response from server", resp.StatusCode)
	}
	return nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// IsTimeout reports whether err came from the per-request deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
