package tavily

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

func WithIncludeAnswer(v bool) Option {
	return func(c *Config) {
		c.includeAnswer = v
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
