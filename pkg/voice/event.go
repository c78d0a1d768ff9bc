package voice

import "strings"

type EventKind string

const (
	EventCallStart   EventKind = "call-start"
	EventCallEnd     EventKind = "call-end"
	EventSpeechStart EventKind = "speech-start"
	EventSpeechEnd   EventKind = "speech-end"
	EventVolumeLevel EventKind = "volume-level"
	EventMessage     EventKind = "message"
	EventError       EventKind = "error"
)

// Event is one inbound notification from the voice backend.
type Event struct {
	Kind    EventKind
	Volume  float64        // EventVolumeLevel, 0..1
	Message map[string]any // EventMessage, discriminated by its "type" field
	Err     error          // EventError
}

// Message types carried inside EventMessage.
const (
	MessageConversationUpdate = "conversation-update"
	MessageChatResponse       = "chat-response"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is the role/content pair sent to the assistant.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OutboundMessage struct {
	Type    string      `json:"type"`
	Message ChatMessage `json:"message"`
}

// AddMessage builds an "add-message" request.
func AddMessage(role, content string) OutboundMessage {
	return OutboundMessage{
		Type:    "add-message",
		Message: ChatMessage{Role: role, Content: content},
	}
}

// ConversationUpdate builds a message record holding a single conversation turn.
func ConversationUpdate(role, text string) map[string]any {
	return map[string]any{
		"type": MessageConversationUpdate,
		"conversation": []any{
			map[string]any{"role": role, "message": text},
		},
	}
}

// AssistantText extracts the newest assistant utterance from a message record.
// Records of other types, or whose latest turn is not the assistant's, yield false.
func AssistantText(msg map[string]any) (string, bool) {
	typ, _ := msg["type"].(string)
	switch typ {
	case MessageConversationUpdate:
		conv, ok := msg["conversation"].([]any)
		if !ok || len(conv) == 0 {
			return "", false
		}
		last, ok := conv[len(conv)-1].(map[string]any)
		if !ok {
			return "", false
		}
		if role, _ := last["role"].(string); role != RoleAssistant {
			return "", false
		}
		return turnText(last), true
	case MessageChatResponse:
		if inner, ok := msg["message"].(map[string]any); ok {
			if role, _ := inner["role"].(string); role != "" && role != RoleAssistant {
				return "", false
			}
			return turnText(inner), true
		}
		text := turnText(msg)
		return text, text != ""
	}
	return "", false
}

func turnText(turn map[string]any) string {
	for _, key := range []string{"message", "content", "response"} {
		if s, ok := turn[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Handlers holds at most one callback per event kind.
type Handlers struct {
	OnCallStart   func()
	OnCallEnd     func()
	OnSpeechStart func()
	OnSpeechEnd   func()
	OnVolumeLevel func(volume float64)
	OnMessage     func(message map[string]any)
	OnError       func(err error)
}

func (h Handlers) dispatch(ev Event) {
	switch ev.Kind {
	case EventCallStart:
		if h.OnCallStart != nil {
			h.OnCallStart()
		}
	case EventCallEnd:
		if h.OnCallEnd != nil {
			h.OnCallEnd()
		}
	case EventSpeechStart:
		if h.OnSpeechStart != nil {
			h.OnSpeechStart()
		}
	case EventSpeechEnd:
		if h.OnSpeechEnd != nil {
			h.OnSpeechEnd()
		}
	case EventVolumeLevel:
		if h.OnVolumeLevel != nil {
			h.OnVolumeLevel(ev.Volume)
		}
	case EventMessage:
		if h.OnMessage != nil {
			h.OnMessage(ev.Message)
		}
	case EventError:
		if h.OnError != nil {
			h.OnError(ev.Err)
		}
	}
}
