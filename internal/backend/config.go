package backend

import (
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/config"
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every backend round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUserAgent sets the User-Agent header sent to the backend.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// FromAppConfig builds a Client from the application config.
func FromAppConfig(appConfig *config.Config, opts ...Option) (*Client, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("app config is nil")
	}
	opts = append([]Option{WithTimeout(appConfig.BackendTimeout)}, opts...)
	return New(appConfig.BackendURL, opts...)
}
