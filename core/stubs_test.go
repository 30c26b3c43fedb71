package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/voxloop/voxloop/core/speechcapture"
	"github.com/voxloop/voxloop/core/speechoutput"
)

const testTimeout = 2 * time.Second

func waitForString(t *testing.T, ch <-chan string, what string) string {
	t.Helper()

	select {
	case value := <-ch:
		return value
	case <-time.After(testTimeout):
		t.Fatalf("Timed out waiting for %s", what)
		return ""
	}
}

func waitForSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(testTimeout):
		t.Fatalf("Timed out waiting for %s", what)
	}
}

func waitUntil(t *testing.T, what string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(testTimeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

type captureStub struct {
	mu        sync.Mutex
	opts      speechcapture.ListenOptions
	stopCalls int

	listenStarted chan struct{}
}

func newCaptureStub() *captureStub {
	return &captureStub{listenStarted: make(chan struct{}, 8)}
}

func (c *captureStub) Listen(_ context.Context, opts ...speechcapture.ListenOption) error {
	options := speechcapture.ListenOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	c.mu.Lock()
	c.opts = options
	c.mu.Unlock()

	c.listenStarted <- struct{}{}
	return nil
}

func (c *captureStub) SendAudio([]byte) error { return nil }

func (c *captureStub) Stop() error {
	c.mu.Lock()
	c.stopCalls++
	callback := c.opts.ListeningEndedCallback
	c.mu.Unlock()

	if callback != nil {
		go callback()
	}
	return nil
}

// finalize delivers a finalized utterance the way a capture session would.
func (c *captureStub) finalize(transcript string) {
	c.mu.Lock()
	callback := c.opts.UtteranceCallback
	c.mu.Unlock()

	if callback != nil {
		callback(transcript)
	}
}

func (c *captureStub) interim(transcript string) {
	c.mu.Lock()
	callback := c.opts.InterimTranscriptionCallback
	c.mu.Unlock()

	if callback != nil {
		callback(transcript)
	}
}

type synthesizerStub struct {
	mu     sync.Mutex
	spoken []string

	started chan string
	// gate, when set, blocks synthesis between the started callback and the
	// audio, so tests can hold an utterance in flight.
	gate chan struct{}
	err  error
}

func newSynthesizerStub() *synthesizerStub {
	return &synthesizerStub{started: make(chan string, 8)}
}

func (s *synthesizerStub) Synthesize(ctx context.Context, text string, opts ...speechoutput.SynthesisOption) error {
	options := speechoutput.SynthesisOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if options.SpeechStartedCallback != nil {
		options.SpeechStartedCallback()
	}

	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()

	s.started <- text

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			// Real synthesis clients treat cancellation as a clean stop.
			return nil
		}
	}

	if options.SpeechAudioCallback != nil {
		options.SpeechAudioCallback(make([]byte, 4))
	}
	if options.SpeechEndedCallback != nil {
		options.SpeechEndedCallback()
	}
	return nil
}

func (s *synthesizerStub) spokenTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

type inferenceStub struct {
	mu    sync.Mutex
	calls []string

	reply string
	err   error
	// gate, when set, holds requests in flight until the test releases them.
	gate chan struct{}
}

func (c *inferenceStub) Infer(ctx context.Context, transcript string) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, transcript)
	c.mu.Unlock()

	if c.gate != nil {
		select {
		case <-c.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *inferenceStub) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *inferenceStub) calledWith() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type audioInputStub struct {
	available bool

	mu        sync.Mutex
	capturing bool
}

func (a *audioInputStub) MicrophoneAvailable() bool { return a.available }

func (a *audioInputStub) StartCapture(context.Context, func(audio []byte)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.capturing = true
	return nil
}

func (a *audioInputStub) StopCapture() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.capturing = false
	return nil
}
