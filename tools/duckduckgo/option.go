package duckduckgo

import (
	"net/http"

	"github.com/bububa/kichat/tools"
)

type Option func(*Config)

func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.baseURL = baseURL
	}
}

// WithRegion sets the kl parameter, e.g. de-de or us-en
func WithRegion(region string) Option {
	return func(c *Config) {
		c.region = region
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.userAgent = ua
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

func WithToolOptions(opts ...tools.Option) Option {
	return func(c *Config) {
		c.Apply(opts...)
	}
}
