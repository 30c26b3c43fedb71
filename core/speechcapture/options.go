// Package speechcapture defines the contract between the orchestrator and
// speech capture clients.
package speechcapture

import "github.com/voxloop/voxloop/core/audio"

type ListenOptions struct {
	// InterimTranscriptionCallback is called with the mutable transcript
	// snapshot while the speaker is still talking.
	InterimTranscriptionCallback func(transcript string)
	// UtteranceCallback is called once per finalized utterance, after the
	// capture client determined the speaker paused.
	UtteranceCallback func(transcript string)

	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	// ListeningEndedCallback is called when the capture session returns to
	// idle, either on request or autonomously after finalizing.
	ListeningEndedCallback func()

	// Continuous keeps the session open after an utterance is finalized.
	// One-shot sessions (the default) end autonomously on finalization.
	Continuous bool
	Language   string

	EncodingInfo audio.EncodingInfo
}

type ListenOption func(*ListenOptions)

func WithUtteranceCallback(callback func(transcript string)) ListenOption {
	return func(o *ListenOptions) {
		o.UtteranceCallback = callback
	}
}

func WithInterimTranscriptionCallback(callback func(transcript string)) ListenOption {
	return func(o *ListenOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) ListenOption {
	return func(o *ListenOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) ListenOption {
	return func(o *ListenOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithListeningEndedCallback(callback func()) ListenOption {
	return func(o *ListenOptions) {
		o.ListeningEndedCallback = callback
	}
}

func WithContinuousListening(continuous bool) ListenOption {
	return func(o *ListenOptions) {
		o.Continuous = continuous
	}
}

func WithLanguage(language string) ListenOption {
	return func(o *ListenOptions) {
		o.Language = language
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) ListenOption {
	return func(o *ListenOptions) {
		o.EncodingInfo = encodingInfo
	}
}
