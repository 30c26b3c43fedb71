package events

const (
	// KindTurnStarted identifies an accepted utterance with inference in flight.
	KindTurnStarted Kind = "turn_state.started"
	// KindTurnCompleted identifies a turn that resolved with a reply.
	KindTurnCompleted Kind = "turn_state.completed"
	// KindTurnFailed identifies a turn that resolved with an error.
	KindTurnFailed Kind = "turn_state.failed"
	// KindTurnSuperseded identifies a stale resolution dropped after reset or a new session.
	KindTurnSuperseded Kind = "turn_state.superseded"
)

// TurnStarted marks an accepted utterance whose inference request is in flight.
type TurnStarted struct {
	Base
	ID         string
	Transcript string
}

// NewTurnStarted creates a turn started event.
func NewTurnStarted(id, transcript string) TurnStarted {
	return TurnStarted{Base: NewBase(KindTurnStarted), ID: id, Transcript: transcript}
}

// TurnCompleted marks a turn that resolved with a reply.
type TurnCompleted struct {
	Base
	ID    string
	Reply string
}

// NewTurnCompleted creates a turn completed event.
func NewTurnCompleted(id, reply string) TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted), ID: id, Reply: reply}
}

// TurnFailed marks a turn that resolved with an error.
type TurnFailed struct {
	Base
	ID     string
	Detail string
}

// NewTurnFailed creates a turn failed event.
func NewTurnFailed(id, detail string) TurnFailed {
	return TurnFailed{Base: NewBase(KindTurnFailed), ID: id, Detail: detail}
}

// TurnSuperseded marks a resolution that arrived for an abandoned turn.
type TurnSuperseded struct {
	Base
	ID string
}

// NewTurnSuperseded creates a turn superseded event.
func NewTurnSuperseded(id string) TurnSuperseded {
	return TurnSuperseded{Base: NewBase(KindTurnSuperseded), ID: id}
}
