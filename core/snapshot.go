package orchestration

import (
	"log"

	"github.com/jinzhu/copier"
)

// Snapshot is a point-in-time, read-only view of the orchestrator, safe to
// hand to UI code on another goroutine.
type Snapshot struct {
	State               State
	Listening           bool
	Speaking            bool
	AwaitingReply       bool
	MicrophoneAvailable bool

	InterimTranscript string
	LastReply         string
	LastTurn          *ConversationTurn
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snapshot := Snapshot{
		State:               o.state,
		Listening:           o.listening,
		Speaking:            o.speaker.IsSpeaking(),
		AwaitingReply:       o.state == StateAwaitingReply,
		MicrophoneAvailable: o.micAvailable(),
		InterimTranscript:   o.interim,
		LastReply:           o.lastReply,
	}

	if o.lastTurn != nil {
		turn := &ConversationTurn{}
		if err := copier.Copy(turn, o.lastTurn); err != nil {
			log.Println("Failed to copy conversation turn", "error", err)
		} else {
			snapshot.LastTurn = turn
		}
	}

	return snapshot
}
