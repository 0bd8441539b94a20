// Package systemprompt builds the system message that opens every chat request
package systemprompt

import (
	"fmt"
	"strings"
)

// Generator renders a system prompt, the empty string means no system message
type Generator interface {
	Generate() string
}

// Prompt is a fixed instruction followed by the info of its context providers
type Prompt struct {
	content          string
	contextProviders []ContextProvider
}

var _ Generator = (*Prompt)(nil)

type Option func(p *Prompt)

// WithContextProviders appends providers, a title already present is skipped
func WithContextProviders(providers ...ContextProvider) Option {
	return func(p *Prompt) {
		p.AddContextProviders(providers...)
	}
}

func New(content string, opts ...Option) *Prompt {
	ret := &Prompt{content: content}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (p *Prompt) ContextProviders() []ContextProvider {
	return p.contextProviders
}

// ContextProvider returns the provider with title
func (p *Prompt) ContextProvider(title string) (ContextProvider, error) {
	for _, v := range p.contextProviders {
		if v.Title() == title {
			return v, nil
		}
	}
	return nil, fmt.Errorf("context provider '%s' not found", title)
}

func (p *Prompt) AddContextProviders(providers ...ContextProvider) {
	for _, provider := range providers {
		if _, err := p.ContextProvider(provider.Title()); err != nil {
			p.contextProviders = append(p.contextProviders, provider)
		}
	}
}

func (p *Prompt) RemoveContextProviders(titles ...string) {
	drop := make(map[string]struct{}, len(titles))
	for _, v := range titles {
		drop[v] = struct{}{}
	}
	providers := make([]ContextProvider, 0, len(p.contextProviders))
	for _, v := range p.contextProviders {
		if _, found := drop[v.Title()]; found {
			continue
		}
		providers = append(providers, v)
	}
	p.contextProviders = providers
}

// Generate returns the content, then one section per provider with non-empty info.
// A prompt without content renders nothing.
func (p *Prompt) Generate() string {
	if strings.TrimSpace(p.content) == "" {
		return ""
	}
	parts := make([]string, 0, len(p.contextProviders)*3+2)
	parts = append(parts, p.content, "")
	for _, provider := range p.contextProviders {
		info := provider.Info()
		if info == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("## %s", provider.Title()), info, "")
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
