package orchestration

import (
	"log"

	"github.com/voxloop/voxloop/core/audio"
)

// audioOutput is the output facade used to normalize playback delivery.
type audioOutput struct {
	client AudioOutput
}

func newAudioOutput(client AudioOutput) *audioOutput {
	return &audioOutput{client: client}
}

func (a *audioOutput) set(client AudioOutput) {
	if a != nil {
		a.client = client
	}
}

func (a *audioOutput) isConfigured() bool {
	return a != nil && a.client != nil
}

func (a *audioOutput) SendAudio(chunk []byte) {
	if !a.isConfigured() {
		return
	}

	if err := a.client.SendAudio(chunk); err != nil {
		log.Println("Failed to send audio to output device", "error", err)
	}
}

func (a *audioOutput) ClearBuffer() {
	if !a.isConfigured() {
		return
	}

	a.client.ClearBuffer()
}

// AwaitMark blocks until everything buffered so far has been played.
func (a *audioOutput) AwaitMark() {
	if !a.isConfigured() {
		return
	}

	if err := a.client.AwaitMark(); err != nil {
		log.Println("Failed to await playback mark", "error", err)
	}
}

func (a *audioOutput) EncodingInfo() audio.EncodingInfo {
	if !a.isConfigured() {
		return audio.GetDefaultEncodingInfo()
	}

	return a.client.EncodingInfo()
}
