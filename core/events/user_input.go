package events

const (
	// KindUserListeningStarted identifies the start of a capture session.
	KindUserListeningStarted Kind = "user_input.listening_started"
	// KindUserListeningEnded identifies the capture session returning to idle.
	KindUserListeningEnded Kind = "user_input.listening_ended"
	// KindUserTranscriptInterimUpdated identifies mutable interim transcript updates.
	KindUserTranscriptInterimUpdated Kind = "user_input.transcript_interim_updated"
	// KindUserUtteranceFinalized identifies a finalized utterance.
	KindUserUtteranceFinalized Kind = "user_input.utterance_finalized"
	// KindUserUtteranceDuplicate identifies a finalized utterance dropped by the guard.
	KindUserUtteranceDuplicate Kind = "user_input.utterance_duplicate"
	// KindMicrophoneUnavailable identifies a refused listening request.
	KindMicrophoneUnavailable Kind = "user_input.microphone_unavailable"
)

// UserListeningStarted marks the start of a capture session.
type UserListeningStarted struct{ Base }

// NewUserListeningStarted creates a listening started event.
func NewUserListeningStarted() UserListeningStarted {
	return UserListeningStarted{Base: NewBase(KindUserListeningStarted)}
}

// UserListeningEnded marks the capture session returning to idle.
type UserListeningEnded struct{ Base }

// NewUserListeningEnded creates a listening ended event.
func NewUserListeningEnded() UserListeningEnded {
	return UserListeningEnded{Base: NewBase(KindUserListeningEnded)}
}

// UserTranscriptInterimUpdated carries the mutable interim transcript snapshot.
type UserTranscriptInterimUpdated struct {
	Base
	Transcript string
}

// NewUserTranscriptInterimUpdated creates an interim transcript update event.
func NewUserTranscriptInterimUpdated(transcript string) UserTranscriptInterimUpdated {
	return UserTranscriptInterimUpdated{Base: NewBase(KindUserTranscriptInterimUpdated), Transcript: transcript}
}

// UserUtteranceFinalized carries a finalized utterance transcript.
type UserUtteranceFinalized struct {
	Base
	Transcript string
}

// NewUserUtteranceFinalized creates a finalized utterance event.
func NewUserUtteranceFinalized(transcript string) UserUtteranceFinalized {
	return UserUtteranceFinalized{Base: NewBase(KindUserUtteranceFinalized), Transcript: transcript}
}

// UserUtteranceDuplicate marks a finalized utterance dropped as a duplicate.
type UserUtteranceDuplicate struct {
	Base
	Transcript string
}

// NewUserUtteranceDuplicate creates a duplicate utterance event.
func NewUserUtteranceDuplicate(transcript string) UserUtteranceDuplicate {
	return UserUtteranceDuplicate{Base: NewBase(KindUserUtteranceDuplicate), Transcript: transcript}
}

// MicrophoneUnavailable marks a listening request refused for lack of a
// usable capture device.
type MicrophoneUnavailable struct{ Base }

// NewMicrophoneUnavailable creates a microphone unavailable event.
func NewMicrophoneUnavailable() MicrophoneUnavailable {
	return MicrophoneUnavailable{Base: NewBase(KindMicrophoneUnavailable)}
}
