// Package apiclient is the single chokepoint for backend HTTP I/O: bearer
// token injection, per-request timeouts, de-duplication of concurrent GETs,
// and normalization of every failure into an *Error inside a Response.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every network call made by a Client.
const DefaultTimeout = 30 * time.Second

// Response is the result envelope of a request. Err is set on failure;
// otherwise Body holds the decoded payload. A Response may be shared by
// several de-duplicated callers and must be treated as read-only.
type Response struct {
	Status int
	Body   json.RawMessage
	Err    *Error
}

// OK reports whether the request succeeded.
func (r *Response) OK() bool {
	return r.Err == nil
}

func failure(err *Error) *Response {
	return &Response{Status: err.Status, Err: err}
}

// Client issues requests against one base URL.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	credentials    CredentialProvider
	timeout        time.Duration
	userAgent      string
	onUnauthorized func()
	flights        *flightGroup
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCredentials sets the bearer token source.
func WithCredentials(p CredentialProvider) Option {
	return func(c *Client) { c.credentials = p }
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithUnauthorizedHandler registers a callback invoked on every 401 response,
// typically to clear a TokenStore.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		flights:    newFlightGroup(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", "api-client", "base_url", c.baseURL)
	}
	return c
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs a request against endpoint (relative to the base URL).
// It never returns nil and never panics: every failure is reported in
// Response.Err.
func (c *Client) Request(ctx context.Context, endpoint string, opts *Options) *Response {
	if ctx == nil {
		ctx = context.Background()
	}
	method := opts.method()
	header := c.buildHeader(ctx, opts)

	if method != http.MethodGet {
		return c.roundTrip(ctx, method, endpoint, opts, header)
	}

	key := cacheKey(method, endpoint, opts, header.Get("Authorization"))
	return c.flights.do(ctx, key, func(ctx context.Context) *Response {
		return c.roundTrip(ctx, method, endpoint, opts, header)
	})
}

func (c *Client) buildHeader(ctx context.Context, opts *Options) http.Header {
	header := make(http.Header)
	header.Set("Accept", "application/json")
	if c.userAgent != "" {
		header.Set("User-Agent", c.userAgent)
	}
	if opts != nil {
		for name, values := range opts.Header {
			for _, v := range values {
				header.Add(name, v)
			}
		}
	}
	if header.Get("Authorization") == "" && c.credentials != nil {
		if token := c.credentials.Token(ctx); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}
	return header
}

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// roundTrip performs one network call under the client timeout.
func (c *Client) roundTrip(ctx context.Context, method, endpoint string, opts *Options, header http.Header) (resp *Response) {
	start := time.Now()
	log := c.logger.With("method", method, "endpoint", endpoint)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Request panicked", "panic", r)
			resp = failure(&Error{Kind: KindTransport, Message: MessageNetworkError})
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, contentType, err := opts.encodeBody()
	if err != nil {
		return failure(&Error{Kind: KindValidation, Message: err.Error()})
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), body)
	if err != nil {
		return failure(&Error{Kind: KindValidation, Message: fmt.Sprintf("create request: %v", err)})
	}
	req.Header = header.Clone()
	if contentType != "" {
		if opts.Form != nil || req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", contentType)
		}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := transportError(ctx, err)
		log.Warn("Request failed", "error", apiErr.Message, "kind", apiErr.Kind, "duration", time.Since(start))
		return failure(apiErr)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		apiErr := transportError(ctx, err)
		apiErr.Status = httpResp.StatusCode
		log.Warn("Reading response body failed", "error", apiErr.Message, "status", httpResp.StatusCode)
		return failure(apiErr)
	}

	payload := decodePayload(httpResp.Header.Get("Content-Type"), raw)
	log.Debug("Request completed", "status", httpResp.StatusCode, "duration", time.Since(start))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		if httpResp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Response{
			Status: httpResp.StatusCode,
			Body:   payload,
			Err: &Error{
				Kind:    KindProtocol,
				Message: protocolMessage(httpResp, payload),
				Status:  httpResp.StatusCode,
			},
		}
	}

	return &Response{Status: httpResp.StatusCode, Body: payload}
}

// transportError classifies a failed round trip.
func transportError(ctx context.Context, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return &Error{Kind: KindTimeout, Message: MessageTimeout}
	}
	msg := err.Error()
	if msg == "" {
		msg = MessageNetworkError
	}
	return &Error{Kind: KindTransport, Message: msg}
}

// decodePayload turns a response body into JSON without ever failing.
// Non-JSON text is wrapped as {"message": text}.
func decodePayload(contentType string, raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	if isJSONContentType(contentType) {
		slog.Debug("Response declared JSON but body is malformed", "content_type", contentType)
	}
	wrapped, err := json.Marshal(map[string]string{"message": string(raw)})
	if err != nil {
		return json.RawMessage("null")
	}
	return wrapped
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func protocolMessage(resp *http.Response, payload json.RawMessage) string {
	var body errorPayload
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
