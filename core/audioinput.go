package orchestration

import (
	"context"

	"github.com/voxloop/voxloop/core/audio"
)

// audioInput is the input facade used to normalize microphone wiring. A
// capture client may source its own audio, in which case no device client is
// configured and the facade reports the microphone as available.
type audioInput struct {
	client AudioInput
}

func newAudioInput(client AudioInput) *audioInput {
	return &audioInput{client: client}
}

func (a *audioInput) set(client AudioInput) {
	if a != nil {
		a.client = client
	}
}

func (a *audioInput) isConfigured() bool {
	return a != nil && a.client != nil
}

func (a *audioInput) Available() bool {
	if !a.isConfigured() {
		return true
	}

	if client, ok := a.client.(interface{ MicrophoneAvailable() bool }); ok {
		return client.MicrophoneAvailable()
	}

	return true
}

func (a *audioInput) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	if !a.isConfigured() {
		return nil
	}

	return a.client.StartCapture(ctx, onAudio)
}

func (a *audioInput) StopCapture() error {
	if !a.isConfigured() {
		return nil
	}

	return a.client.StopCapture()
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if !a.isConfigured() {
		return audio.GetDefaultEncodingInfo()
	}

	if client, ok := a.client.(interface{ EncodingInfo() audio.EncodingInfo }); ok {
		return client.EncodingInfo()
	}

	return audio.GetDefaultEncodingInfo()
}
