package orchestration

import (
	"context"
	"fmt"

	"github.com/voxloop/voxloop/core/audio"
	"github.com/voxloop/voxloop/core/speechcapture"
)

type speechCaptureCallbacks struct {
	onInterimTranscription func(transcript string)
	onUtterance            func(transcript string)
	onListeningEnded       func()
}

// speechCapture is the capture facade used to handle optional client wiring.
type speechCapture struct {
	client SpeechCapture
}

func newSpeechCapture(client SpeechCapture) *speechCapture {
	return &speechCapture{client: client}
}

func (s *speechCapture) set(client SpeechCapture) {
	if s != nil {
		s.client = client
	}
}

func (s *speechCapture) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechCapture) start(
	ctx context.Context,
	callbacks speechCaptureCallbacks,
	encodingInfo *audio.EncodingInfo,
	language string,
	continuous bool,
) error {
	if !s.isConfigured() {
		return fmt.Errorf("speech capture client not configured")
	}

	listenOptions := []speechcapture.ListenOption{
		speechcapture.WithInterimTranscriptionCallback(callbacks.onInterimTranscription),
		speechcapture.WithUtteranceCallback(callbacks.onUtterance),
		speechcapture.WithListeningEndedCallback(callbacks.onListeningEnded),
		speechcapture.WithContinuousListening(continuous),
	}
	if language != "" {
		listenOptions = append(listenOptions, speechcapture.WithLanguage(language))
	}
	if encodingInfo != nil {
		listenOptions = append(listenOptions, speechcapture.WithEncodingInfo(*encodingInfo))
	}

	if err := s.client.Listen(ctx, listenOptions...); err != nil {
		return fmt.Errorf("failed to start listening: %w", err)
	}

	return nil
}

func (s *speechCapture) SendAudio(audio []byte) error {
	if !s.isConfigured() {
		return nil
	}

	return s.client.SendAudio(audio)
}

func (s *speechCapture) Stop() error {
	if !s.isConfigured() {
		return nil
	}

	return s.client.Stop()
}

func (s *speechCapture) Close(ctx context.Context) error {
	if !s.isConfigured() {
		return nil
	}

	switch c := s.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("failed to close speech capture client: %w", err)
		}
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close speech capture client: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}
