package events

const (
	// KindAssistantSpeechStarted identifies the start of synthesized output.
	KindAssistantSpeechStarted Kind = "assistant_speech.started"
	// KindAssistantSpeechEnded identifies natural completion of synthesized output.
	KindAssistantSpeechEnded Kind = "assistant_speech.ended"
	// KindAssistantSpeechFailed identifies an output engine failure.
	KindAssistantSpeechFailed Kind = "assistant_speech.failed"
)

// AssistantSpeechStarted marks the start of synthesized output.
type AssistantSpeechStarted struct {
	Base
	Text string
}

// NewAssistantSpeechStarted creates an assistant speech started event.
func NewAssistantSpeechStarted(text string) AssistantSpeechStarted {
	return AssistantSpeechStarted{Base: NewBase(KindAssistantSpeechStarted), Text: text}
}

// AssistantSpeechEnded marks natural completion of synthesized output.
type AssistantSpeechEnded struct {
	Base
	Text string
}

// NewAssistantSpeechEnded creates an assistant speech ended event.
func NewAssistantSpeechEnded(text string) AssistantSpeechEnded {
	return AssistantSpeechEnded{Base: NewBase(KindAssistantSpeechEnded), Text: text}
}

// AssistantSpeechFailed marks an output engine failure.
type AssistantSpeechFailed struct {
	Base
	Detail string
}

// NewAssistantSpeechFailed creates an assistant speech failed event.
func NewAssistantSpeechFailed(detail string) AssistantSpeechFailed {
	return AssistantSpeechFailed{Base: NewBase(KindAssistantSpeechFailed), Detail: detail}
}
