package orchestration

import "github.com/voxloop/voxloop/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.UserListeningStarted:
			if opts.onListeningStateChanged != nil {
				opts.onListeningStateChanged(true)
			}
		case events.UserListeningEnded:
			if opts.onListeningStateChanged != nil {
				opts.onListeningStateChanged(false)
			}
		case events.UserTranscriptInterimUpdated:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(typedEvent.Transcript)
			}
		case events.UserUtteranceFinalized:
			if opts.onUtterance != nil {
				opts.onUtterance(typedEvent.Transcript)
			}
		case events.MicrophoneUnavailable:
			if opts.onMicrophoneUnavailable != nil {
				opts.onMicrophoneUnavailable()
			}
		case events.TurnCompleted:
			if opts.onReply != nil {
				opts.onReply(typedEvent.Reply)
			}
		case events.TurnFailed:
			if opts.onTurnFailed != nil {
				opts.onTurnFailed(typedEvent.Detail)
			}
		case events.AssistantSpeechStarted:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(true)
			}
		case events.AssistantSpeechEnded:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(false)
			}
		case events.AssistantSpeechFailed:
			if opts.onSpeakingStateChanged != nil {
				opts.onSpeakingStateChanged(false)
			}
		}
	}
}
