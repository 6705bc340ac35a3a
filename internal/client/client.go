package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
	"github.com/nnhurricane156/phygen-portal/internal/tokenstore"
)

// TokenPolicy controls how a request behaves when no token is stored.
type TokenPolicy int

const (
	// TokenRequired fails with ErrUnauthenticated before any network I/O.
	// This is the default policy.
	TokenRequired TokenPolicy = iota
	// TokenOptional omits the Authorization header and lets the backend
	// decide. Used by the generic call paths that probe public endpoints.
	TokenOptional
)

// Navigator receives the "go back to login" side effect after a session
// teardown.
type Navigator interface {
	ToLogin(reason string)
}

// Config holds client settings.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	// TransferBaseTimeout and TransferPerMB scale the deadline for
	// uploads and downloads with payload size.
	TransferBaseTimeout time.Duration
	TransferPerMB       time.Duration
	// Policy is the default token policy; individual calls may override.
	Policy TokenPolicy
}

// Client issues authenticated JSON requests against the exam backend.
// On any 401 it clears the token store and navigates to login; every other
// error propagates to the caller untouched. Nothing is retried.
type Client struct {
	baseURL string
	http    *http.Client
	store   tokenstore.Store
	nav     Navigator
	log     *logger.Logger
	cfg     *Config
}

// New creates a Client.
func New(cfg *Config, store tokenstore.Store, nav Navigator, log *logger.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.TransferBaseTimeout == 0 {
		cfg.TransferBaseTimeout = 30 * time.Second
	}
	if cfg.TransferPerMB == 0 {
		cfg.TransferPerMB = 10 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		store: store,
		nav:   nav,
		log:   log,
		cfg:   cfg,
	}
}

// requestOptions collect per-call overrides.
type requestOptions struct {
	headers map[string]string
	policy  *TokenPolicy
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

// WithHeader sets or overrides a request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithTokenPolicy overrides the client's default token policy for one call.
func WithTokenPolicy(policy TokenPolicy) RequestOption {
	return func(o *requestOptions) {
		o.policy = &policy
	}
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, path, body, out, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	policy := c.cfg.Policy
	if options.policy != nil {
		policy = *options.policy
	}

	token := c.store.Token()
	if token == "" && policy == TokenRequired {
		return domain.ErrUnauthenticated
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range options.headers {
		req.Header.Set(key, value)
	}

	tracer := otel.Tracer("phygen-portal/client")
	ctx, span := tracer.Start(ctx, fmt.Sprintf("backend %s %s", method, path))
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)
	defer span.End()
	req = req.WithContext(ctx)

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, context.DeadlineExceeded) {
			return &domain.TimeoutError{Op: method + " " + path}
		}
		c.log.Error("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(method, path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &domain.RequestError{
			Status:  resp.StatusCode,
			Message: extractMessage(data),
		}
		span.SetStatus(codes.Error, reqErr.Error())
		c.log.Warn("backend returned an error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", reqErr.Message),
		)
		return reqErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleUnauthorized tears the session down. Only auth failures have side
// effects; every other error path leaves the store alone.
func (c *Client) handleUnauthorized(method, path string) error {
	if err := c.store.Clear(); err != nil {
		c.log.Error("failed to clear session after 401", zap.Error(err))
	}
	c.nav.ToLogin("session expired")
	c.log.Warn("session torn down after 401",
		zap.String("method", method),
		zap.String("path", path),
	)
	return domain.ErrUnauthorized
}

// extractMessage pulls a human-readable message out of an error body.
// The backend is inconsistent about shape, so both the bare `{message}`
// form and the envelope form are tried.
func extractMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return ""
}
