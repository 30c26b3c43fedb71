// Package speechoutput defines the contract between the orchestrator and
// speech synthesis clients.
package speechoutput

import "github.com/voxloop/voxloop/core/audio"

type SynthesisOptions struct {
	// SpeechAudioCallback is called for each chunk of synthesized audio, in
	// generation order.
	SpeechAudioCallback func(audio []byte)
	// SpeechStartedCallback is called once, before the first audio chunk.
	SpeechStartedCallback func()
	// SpeechEndedCallback is called once all audio for the utterance has been
	// produced. It is not called after a cancellation or an error.
	SpeechEndedCallback func()
	// ErrorCallback is called when synthesis fails mid-utterance.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type SynthesisOption func(*SynthesisOptions)

func WithSpeechAudioCallback(callback func([]byte)) SynthesisOption {
	return func(o *SynthesisOptions) { o.SpeechAudioCallback = callback }
}

func WithSpeechStartedCallback(callback func()) SynthesisOption {
	return func(o *SynthesisOptions) { o.SpeechStartedCallback = callback }
}

func WithSpeechEndedCallback(callback func()) SynthesisOption {
	return func(o *SynthesisOptions) { o.SpeechEndedCallback = callback }
}

func WithErrorCallback(callback func(error)) SynthesisOption {
	return func(o *SynthesisOptions) { o.ErrorCallback = callback }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SynthesisOption {
	return func(o *SynthesisOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
