package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"golang.org/x/time/rate"

	"github.com/srynk/pulse/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the client relies on
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeminiClientInterface is the generation backend seen by the turn controller
// and the commands.
type GeminiClientInterface interface {
	GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error)
	GetModel() models.Model
	SetModel(model models.Model)
	Close()
	IsClosed() bool
}

var _ GeminiClientInterface = (*GeminiClient)(nil)

// GeminiClient talks to the generateContent endpoint
type GeminiClient struct {
	httpClient HTTPDoer
	apiKey     string
	baseURL    string
	model      models.Model
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger

	warnKeyOnce sync.Once
	mu          sync.RWMutex
	closed      bool
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the default model for the client
func WithModel(model models.Model) ClientOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// WithAPIKey sets the key sent as the `key` query parameter
func WithAPIKey(key string) ClientOption {
	return func(c *GeminiClient) {
		c.apiKey = key
	}
}

// WithBaseURL points the client at another host (proxies, tests)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GeminiClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout bounds each request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *GeminiClient) {
		c.timeout = timeout
	}
}

// WithRateLimit paces requests to at most perMinute; 0 disables pacing
func WithRateLimit(perMinute int) ClientOption {
	return func(c *GeminiClient) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithHTTPClient replaces the TLS client (used by tests)
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *GeminiClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new GeminiClient
func NewClient(opts ...ClientOption) (*GeminiClient, error) {
	client := &GeminiClient{
		baseURL: models.DefaultBaseURL,
		model:   models.DefaultModel,
		timeout: 60 * time.Second,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}
	client.logger = client.logger.With("component", "api")

	if client.httpClient == nil {
		// Create TLS client with Chrome profile for browser emulation
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Close marks the client closed; later requests fail
func (c *GeminiClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if closer, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *GeminiClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// GetModel returns the default model
func (c *GeminiClient) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the default model
func (c *GeminiClient) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// endpoint returns the generateContent URL without the key
func (c *GeminiClient) endpoint(model models.Model) string {
	return fmt.Sprintf("%s/%s/models/%s:%s", c.baseURL, models.APIVersion, model.Name, models.GenerateMethod)
}
