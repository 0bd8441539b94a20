// Package chat holds a streaming conversation with an OpenAI compatible chat API
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/kichat/components"
	"github.com/bububa/kichat/components/systemprompt"
	"github.com/bububa/kichat/tools/websearch"
	"github.com/bububa/kichat/tools/webscraper"
)

const (
	DefaultBaseURL         = "https://ki-chat.uni-mainz.de/api"
	DefaultReasoningEffort = "medium"
	// reasoningModel is the only model accepting a reasoning effort
	reasoningModel = "gpt oss 120b"
)

var (
	// ErrInvalidSelection is returned for a model choice that matches nothing
	ErrInvalidSelection = errors.New("invalid model selection")
	// ErrInvalidReasoning is returned for a reasoning effort other than low, medium or high
	ErrInvalidReasoning = errors.New("invalid reasoning effort")
	// ErrNoModel is returned when sending before a model was selected
	ErrNoModel = errors.New("no model selected")
)

var reasoningLevels = []string{"low", "medium", "high"}

var strongTriggers = []string{"aktuell", "heute", "news", "2025", "wetter", "weather", "preis", "kurs"}

// Searcher finds web context for a question
type Searcher interface {
	Search(ctx context.Context, question string) (*websearch.Result, error)
}

// Reply is a completed answer
type Reply struct {
	Content string
	// Search is set when web results were added to the question
	Search *websearch.Info
}

type Config struct {
	client          *openai.Client
	memory          *components.Memory
	searcher        Searcher
	scraper         *webscraper.Webscraper
	systemPrompt    systemprompt.Generator
	model           string
	reasoningEffort string
}

// Session is a conversation with one selected model
type Session struct {
	Config
	mtx sync.RWMutex
}

func New(opts ...Option) (*Session, error) {
	ret := new(Session)
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.client == nil {
		return nil, errors.New("chat: client is required")
	}
	if ret.memory == nil {
		ret.memory = components.NewMemory(0)
	}
	if ret.scraper == nil {
		ret.scraper = webscraper.New()
	}
	level := ret.reasoningEffort
	ret.reasoningEffort = DefaultReasoningEffort
	if level != "" {
		if err := ret.SetReasoningEffort(level); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// NewClient returns a chat API client for baseURL, the empty string means DefaultBaseURL
func NewClient(apiKey string, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	return openai.NewClientWithConfig(cfg)
}

// Models lists the model ids offered by the API
func (s *Session) Models(ctx context.Context) ([]string, error) {
	list, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ret = append(ret, m.ID)
	}
	return ret, nil
}

// SelectModel resolves a choice against models. The empty choice picks the first model,
// a number picks by 1-based position, anything else picks the first model containing it.
func SelectModel(models []string, choice string) (string, error) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		choice = "1"
	}
	if idx, err := strconv.Atoi(choice); err == nil {
		if idx >= 1 && idx <= len(models) {
			return models[idx-1], nil
		}
	}
	lower := strings.ToLower(choice)
	for _, m := range models {
		if strings.Contains(strings.ToLower(m), lower) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidSelection, choice)
}

func (s *Session) Model() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.model
}

func (s *Session) SetModel(model string) {
	s.mtx.Lock()
	s.model = model
	s.mtx.Unlock()
}

func (s *Session) ReasoningEffort() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.reasoningEffort
}

// SetReasoningEffort accepts low, medium or high in any case
func (s *Session) SetReasoningEffort(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, v := range reasoningLevels {
		if v == level {
			s.mtx.Lock()
			s.reasoningEffort = level
			s.mtx.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidReasoning, level)
}

// SupportsReasoning reports whether the selected model takes a reasoning effort
func (s *Session) SupportsReasoning() bool {
	return strings.Contains(strings.ToLower(s.Model()), reasoningModel)
}

// HasSearch reports whether a web searcher is configured
func (s *Session) HasSearch() bool {
	return s.searcher != nil
}

// NeedsSearch reports whether msg asks for current information
func NeedsSearch(msg string) bool {
	lower := strings.ToLower(msg)
	for _, w := range strongTriggers {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// WithSearchContext appends formatted web results to msg
func WithSearchContext(msg string, results string) string {
	return fmt.Sprintf("%s\n\nBitte berücksichtige diese aktuellen Informationen aus dem Web:\n\n[Aktuelle Suchergebnisse zum Thema:\n%s]\n\n", msg, results)
}

// Send asks msg and streams the answer to onDelta. A web search runs when forced or
// when msg asks for current information. A failed request leaves the history unchanged.
func (s *Session) Send(ctx context.Context, msg string, forceSearch bool, onDelta func(string)) (*Reply, error) {
	content := msg
	var info *websearch.Info
	if s.searcher != nil && (forceSearch || NeedsSearch(msg)) {
		res, err := s.searcher.Search(ctx, msg)
		if err != nil {
			log.Warn().Err(err).Msg("web search")
		} else {
			content = WithSearchContext(msg, res.Format())
			info = res.Info()
		}
	}
	reply, err := s.complete(ctx, content, onDelta)
	if err != nil {
		return nil, err
	}
	reply.Search = info
	return reply, nil
}

// SendPage asks question about the web page at link
func (s *Session) SendPage(ctx context.Context, link string, question string, onDelta func(string)) (*Reply, error) {
	var out webscraper.Output
	if err := s.scraper.Run(ctx, webscraper.NewInput(link, webscraper.MarkdownFormat), &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		question = "Fasse den Inhalt dieser Webseite zusammen."
	}
	content := fmt.Sprintf("%s\n\nInhalt der Webseite %s:\n\n%s", question, link, out.Content)
	return s.complete(ctx, content, onDelta)
}

func (s *Session) complete(ctx context.Context, content string, onDelta func(string)) (*Reply, error) {
	model := s.Model()
	if model == "" {
		return nil, ErrNoModel
	}
	s.memory.NewTurn()
	turnID := s.memory.TurnID()
	s.memory.NewMessage(components.UserRole, content)
	answer, err := s.stream(ctx, model, onDelta)
	if err != nil {
		if delErr := s.memory.DeleteTurn(turnID); delErr != nil {
			log.Debug().Err(delErr).Msg("drop failed turn")
		}
		return nil, err
	}
	s.memory.NewMessage(components.AssistantRole, answer)
	return &Reply{Content: answer}, nil
}

func (s *Session) stream(ctx context.Context, model string, onDelta func(string)) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: s.messages(),
		Stream:   true,
	}
	if s.SupportsReasoning() {
		req.ReasoningEffort = s.ReasoningEffort()
	}
	stream, err := s.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", err
	}
	defer stream.Close()
	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			sb.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}
	return sb.String(), nil
}

// messages is the history, led by the system prompt when one is set
func (s *Session) messages() []openai.ChatCompletionMessage {
	history := components.MessagesToOpenAI(s.memory.History())
	if s.systemPrompt == nil {
		return history
	}
	prompt := s.systemPrompt.Generate()
	if prompt == "" {
		return history
	}
	return append([]openai.ChatCompletionMessage{{Role: components.SystemRole, Content: prompt}}, history...)
}

// Clear starts a new conversation
func (s *Session) Clear() {
	s.memory.Reset()
}

// History returns the conversation, oldest message first
func (s *Session) History() []components.Message {
	return s.memory.History()
}
