package chat

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/kichat/components"
	"github.com/bububa/kichat/components/systemprompt"
	"github.com/bububa/kichat/tools/webscraper"
)

type Option func(c *Config)

func WithClient(clt *openai.Client) Option {
	return func(c *Config) {
		c.client = clt
	}
}

func WithMemory(m *components.Memory) Option {
	return func(c *Config) {
		c.memory = m
	}
}

// WithSearcher enables web search, nil disables it
func WithSearcher(s Searcher) Option {
	return func(c *Config) {
		c.searcher = s
	}
}

func WithScraper(s *webscraper.Webscraper) Option {
	return func(c *Config) {
		c.scraper = s
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithReasoningEffort(level string) Option {
	return func(c *Config) {
		c.reasoningEffort = level
	}
}

// WithSystemPrompt opens every request with the generated system message
func WithSystemPrompt(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.systemPrompt = g
	}
}
