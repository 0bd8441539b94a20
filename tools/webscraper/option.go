package webscraper

import (
	"net/http"
	"time"

	"github.com/bububa/kichat/tools"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultAccept    = "text/html,application/xhtml+xml,application/xml;"
	DefaultTimeout   = 10 * time.Second
	// DefaultMaxChars bounds the text format
	DefaultMaxChars = 3000
	// MinChars is the shortest text worth returning
	MinChars = 100
)

// DefaultSkipDomains never yield useful article text
var DefaultSkipDomains = []string{
	"microsoft.com", "office.com", "apple.com", "google.com/search",
	"facebook.com", "twitter.com", "instagram.com", "amazon.com",
	"youtube.com", "linkedin.com",
}

type Option func(*Config)

func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.userAgent = ua
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.timeout = timeout
	}
}

func WithMaxContentLength(l int64) Option {
	return func(c *Config) {
		c.maxContentLength = l
	}
}

func WithMaxChars(n int) Option {
	return func(c *Config) {
		c.maxChars = n
	}
}

func WithSkipDomains(domains ...string) Option {
	return func(c *Config) {
		c.skipDomains = domains
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
