package orchestration

import (
	"context"

	"github.com/voxloop/voxloop/core/audio"
	"github.com/voxloop/voxloop/core/speechcapture"
	"github.com/voxloop/voxloop/core/speechoutput"
)

type OrchestratorOption func(*Orchestrator)

// SpeechCapture is the capture service contract: start a listening session,
// feed it audio, ask it to stop. Sessions report transcripts through the
// callbacks configured via ListenOptions.
type SpeechCapture interface {
	Listen(ctx context.Context, opts ...speechcapture.ListenOption) error
	SendAudio(audio []byte) error
	Stop() error
}

func WithSpeechCaptureClient(client SpeechCapture) OrchestratorOption {
	return func(o *Orchestrator) {
		o.capture.set(client)
	}
}

// SpeechSynthesizer is the output engine contract: synthesize one utterance,
// streaming audio and lifecycle signals through the configured callbacks.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, opts ...speechoutput.SynthesisOption) error
}

func WithSpeechSynthesizer(client SpeechSynthesizer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speaker.set(client)
	}
}

// InferenceClient issues exactly one request per accepted utterance. Errors
// are *inference.Error values tagged with the failure kind.
type InferenceClient interface {
	Infer(ctx context.Context, transcript string) (string, error)
}

func WithInferenceClient(client InferenceClient) OrchestratorOption {
	return func(o *Orchestrator) {
		o.inference.set(client)
	}
}

// AudioInput is a microphone device client feeding raw audio to the capture
// service.
type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioInput.set(client) }
}

// AudioOutput is a playback device client for synthesized speech.
type AudioOutput interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	AwaitMark() error
	EncodingInfo() audio.EncodingInfo
}

func WithAudioOutput(client AudioOutput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioOutput.set(client) }
}

// WithCaptureLanguage sets the language tag passed to capture sessions.
func WithCaptureLanguage(language string) OrchestratorOption {
	return func(o *Orchestrator) { o.captureLanguage = language }
}

// WithContinuousCapture keeps capture sessions open past the first finalized
// utterance instead of the default one-shot behavior.
func WithContinuousCapture(continuous bool) OrchestratorOption {
	return func(o *Orchestrator) { o.continuousCapture = continuous }
}

type OrchestrateOptions struct {
	onListeningStateChanged func(listening bool)
	onInterimTranscription  func(transcript string)
	onUtterance             func(transcript string)
	onReply                 func(reply string)
	onTurnFailed            func(detail string)
	onSpeakingStateChanged  func(speaking bool)
	onMicrophoneUnavailable func()
}

type OrchestrateOption func(*OrchestrateOptions)

func WithListeningStateCallback(callback func(listening bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onListeningStateChanged = callback }
}

func WithInterimTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onInterimTranscription = callback }
}

func WithUtteranceCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onUtterance = callback }
}

func WithReplyCallback(callback func(reply string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onReply = callback }
}

func WithTurnFailedCallback(callback func(detail string)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onTurnFailed = callback }
}

func WithSpeakingStateCallback(callback func(speaking bool)) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onSpeakingStateChanged = callback }
}

func WithMicrophoneUnavailableCallback(callback func()) OrchestrateOption {
	return func(o *OrchestrateOptions) { o.onMicrophoneUnavailable = callback }
}
