package orchestration

import (
	"time"

	"github.com/google/uuid"
)

// State is the orchestrator's position in the voice-turn cycle.
type State string

const (
	StateIdle          State = "idle"
	StateListening     State = "listening"
	StateAwaitingReply State = "awaiting_reply"
)

// OutputState is the speech output controller's slot state.
type OutputState string

const (
	OutputStateSilent   OutputState = "silent"
	OutputStateSpeaking OutputState = "speaking"
)

// TurnStatus tracks a conversation turn through its lifecycle.
type TurnStatus string

const (
	TurnStatusPending   TurnStatus = "pending"
	TurnStatusSucceeded TurnStatus = "succeeded"
	TurnStatusFailed    TurnStatus = "failed"
)

// Utterance is one finalized segment of recognized speech. Immutable once
// created.
type Utterance struct {
	Text        string
	FinalizedAt time.Time
}

// ConversationTurn is one utterance -> inference -> spoken reply cycle. It is
// created when an utterance is accepted and mutated only by the orchestrator
// as the inference request resolves. No history is kept across turns.
type ConversationTurn struct {
	ID          string
	Input       Utterance
	Status      TurnStatus
	Reply       string
	ErrorDetail string
}

func newConversationTurn(text string) *ConversationTurn {
	return &ConversationTurn{
		ID:     uuid.NewString(),
		Input:  Utterance{Text: text, FinalizedAt: time.Now()},
		Status: TurnStatusPending,
	}
}
