package widget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Texts shown to the visitor in place of a real answer.
const (
	PlaceholderText = "Thinking ..."
	UnavailableText = "Réponse non disponible"
	ApologyText     = "Désolé, une erreur s'est produite. Veuillez réessayer."
)

// Greeting is rendered at the top of every transcript. It is not part of the conversation.
const Greeting = "Bonjour ! 👋 Je suis votre assistant virtuel BEA. Comment puis-je vous aider aujourd'hui ?"

// Message is a single entry of the transcript.
type Message struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
	Text string    `json:"text"`
	// Pending marks the transient assistant placeholder shown while a request is outstanding.
	Pending   bool      `json:"pending,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Phase is the lifecycle position of the current exchange.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUserMessageAppended
	PhasePending
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseUserMessageAppended:
		return "user_message_appended"
	case PhasePending:
		return "pending"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// MarshalText lets a Phase travel as its name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText reads a Phase back from its name, as sent on the session stream.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseIdle, PhaseUserMessageAppended, PhasePending, PhaseResolved} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Outcome says how an exchange was resolved.
type Outcome int

const (
	// OutcomeAnswered means the answer service returned a usable answer.
	OutcomeAnswered Outcome = iota
	// OutcomeUnavailable means the response had no answer text.
	OutcomeUnavailable
	// OutcomeFailed means the request itself failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnswered:
		return "answered"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the controller state, safe to hand to a view.
type Snapshot struct {
	Visible  bool      `json:"visible"`
	Busy     bool      `json:"busy"`
	Phase    Phase     `json:"phase"`
	Messages []Message `json:"messages"`
}
