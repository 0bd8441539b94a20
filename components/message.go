package components

import (
	"encoding/json"

	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"
)

// NewTurnID returns a new turn ID.
func NewTurnID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'assistant')
type MessageRole = string

const (
	SystemRole    MessageRole = "system"
	UserRole      MessageRole = "user"
	AssistantRole MessageRole = "assistant"
)

// Message Represents a message in the chat history.
type Message struct {
	content string
	// role is the role of the message sender (e.g., 'user', 'system', 'assistant')
	role MessageRole
	//	turnID is Unique identifier for the turn this message belongs to.
	turnID string
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content string) *Message {
	return &Message{
		role:    role,
		content: content,
	}
}

// SetTurnID set message turnID
func (m *Message) SetTurnID(turnID string) *Message {
	m.turnID = turnID
	return m
}

// Role returns message role
func (m Message) Role() MessageRole {
	return m.role
}

// Content returns message content
func (m Message) Content() string {
	return m.content
}

// TurnID returns message turnID
func (m Message) TurnID() string {
	return m.turnID
}

// ToOpenAI convert message to openai ChatCompletionMessage
func (m Message) ToOpenAI(dist *openai.ChatCompletionMessage) {
	dist.Role = m.role
	dist.Content = m.content
}

type jsonMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
	TurnID  string      `json:"turn_id,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMessage{Role: m.role, Content: m.content, TurnID: m.turnID})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Message) UnmarshalJSON(b []byte) error {
	var v jsonMessage
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	m.role, m.content, m.turnID = v.Role, v.Content, v.TurnID
	return nil
}

// MessagesToOpenAI converts a history to the chat completion request format
func MessagesToOpenAI(list []Message) []openai.ChatCompletionMessage {
	ret := make([]openai.ChatCompletionMessage, len(list))
	for i, m := range list {
		m.ToOpenAI(&ret[i])
	}
	return ret
}
