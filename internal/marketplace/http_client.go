package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"sneaker-feed/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://stockx.com"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 0
	DefaultRetryDelay = 1 * time.Second
	DefaultMaxDelay   = 10 * time.Second
	DefaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// HTTPClient talks to the marketplace HTTP API. It holds no session state;
// Login hands back a Session that carries the token.
type HTTPClient struct {
	client     *resty.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
	userAgent  string
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.timeout = d
	}
}

// WithMaxRetries sets the number of retries after a transport error or 5xx.
// Every retry is another request against the run's fetch quota, so the default is none.
// A 429 is never retried.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets the maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.maxDelay = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// NewHTTPClient creates a client for the marketplace at baseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &HTTPClient{
		client:     resty.New(),
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client.
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(c.timeout).
		SetRetryCount(c.maxRetries).
		SetRetryWaitTime(c.retryDelay).
		SetRetryMaxWaitTime(c.maxDelay).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.userAgent).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	return c
}

// Login authenticates and returns a Session for subsequent calls.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*Session, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(loginRequest{Email: creds.Username, Password: creds.Password}).
		Post("/api/login")
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if resp.IsError() {
		return nil, statusError("login", resp)
	}

	var out loginResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	token := out.Token
	if token == "" {
		token = resp.Header().Get("Jwt-Authorization")
	}
	if token == "" {
		return nil, ErrNoToken
	}

	return &Session{http: c, token: token, username: creds.Username}, nil
}

// Session is an authenticated handle on the marketplace.
type Session struct {
	http     *HTTPClient
	token    string
	username string
}

// NewSession wraps an existing token, e.g. one cached from an earlier login.
func NewSession(c *HTTPClient, token string) *Session {
	return &Session{http: c, token: token}
}

// Username returns the account the session was opened for.
func (s *Session) Username() string {
	return s.username
}

// Search returns up to limit products matching keyword, in marketplace ranking order.
func (s *Session) Search(ctx context.Context, keyword string, limit int) ([]*domain.Item, error) {
	req := s.request(ctx).SetQueryParam("_search", keyword)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get("/api/browse")
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	if resp.IsError() {
		return nil, statusError("search "+keyword, resp)
	}

	var out searchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]*domain.Item, 0, len(out.Products))
	for i := range out.Products {
		items = append(items, out.Products[i].Item())
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// FetchDetails returns the product with per-size market data.
func (s *Session) FetchDetails(ctx context.Context, urlKey string) (*ProductResponse, error) {
	if strings.TrimSpace(urlKey) == "" {
		return nil, fmt.Errorf("fetch details: empty url key")
	}

	resp, err := s.request(ctx).
		SetPathParam("urlKey", urlKey).
		SetQueryParam("includes", "market").
		Get("/api/products/{urlKey}")
	if err != nil {
		return nil, fmt.Errorf("fetch details %s: %w", urlKey, err)
	}
	if resp.IsError() {
		return nil, statusError("fetch details "+urlKey, resp)
	}

	var out ProductResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", urlKey, err)
	}
	if out.Product == nil {
		return nil, fmt.Errorf("fetch details %s: %w", urlKey, ErrEmptyResponse)
	}
	return &out, nil
}

func (s *Session) request(ctx context.Context) *resty.Request {
	return s.http.client.R().
		SetContext(ctx).
		SetAuthToken(s.token)
}

func statusError(op string, resp *resty.Response) error {
	body := resp.String()
	if len(body) > 256 {
		body = body[:256]
	}
	return &StatusError{Op: op, Status: resp.StatusCode(), Body: body}
}

var (
	_ Searcher       = (*Session)(nil)
	_ DetailsFetcher = (*Session)(nil)
)
