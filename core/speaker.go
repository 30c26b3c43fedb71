package orchestration

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/voxloop/voxloop/core/events"
	"github.com/voxloop/voxloop/core/speechoutput"
)

// speechOutput owns the single "currently speaking" slot. Starting a new
// utterance while one is playing terminates the old one first; output is
// last-writer-wins, never a queue.
type speechOutput struct {
	synthesizer SpeechSynthesizer
	audioOutput *audioOutput

	emitEvent eventEmitter

	mu           sync.Mutex
	speaking     bool
	activeID     string
	activeCancel context.CancelFunc
}

func newSpeechOutput(synthesizer SpeechSynthesizer, output *audioOutput) *speechOutput {
	return &speechOutput{
		synthesizer: synthesizer,
		audioOutput: output,
		emitEvent:   noopEventEmitter,
	}
}

func (s *speechOutput) set(synthesizer SpeechSynthesizer) {
	if s != nil {
		s.synthesizer = synthesizer
	}
}

func (s *speechOutput) isConfigured() bool {
	return s != nil && s.synthesizer != nil
}

func (s *speechOutput) SetEventEmitter(emitEvent eventEmitter) {
	if s != nil {
		if emitEvent != nil {
			s.emitEvent = emitEvent
		} else {
			s.emitEvent = noopEventEmitter
		}
	}
}

// State reports the slot state for UI reflection.
func (s *speechOutput) State() OutputState {
	if s.IsSpeaking() {
		return OutputStateSpeaking
	}
	return OutputStateSilent
}

func (s *speechOutput) IsSpeaking() bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Speak starts speaking text, terminating any in-progress output first. It
// returns as soon as the utterance is scheduled; playback runs on its own
// goroutine.
func (s *speechOutput) Speak(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		log.Println("Warning: ignoring request to speak empty text")
		return
	}

	if !s.isConfigured() {
		log.Println("Warning: no speech synthesizer configured, dropping utterance")
		return
	}

	utteranceCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.activeCancel != nil {
		s.activeCancel()
		s.audioOutput.ClearBuffer()
	}
	id := uuid.NewString()
	s.activeID = id
	s.activeCancel = cancel
	s.mu.Unlock()

	go s.speakUtterance(utteranceCtx, id, text)
}

// Cancel terminates the in-progress output, if any, and forces the slot back
// to silent.
func (s *speechOutput) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeCancel == nil {
		return
	}

	s.activeCancel()
	s.audioOutput.ClearBuffer()
	s.activeID = ""
	s.activeCancel = nil
	s.speaking = false
}

func (s *speechOutput) speakUtterance(ctx context.Context, id string, text string) {
	defer s.finish(id)

	err := s.synthesizer.Synthesize(ctx, text,
		speechoutput.WithEncodingInfo(s.audioOutput.EncodingInfo()),
		speechoutput.WithSpeechStartedCallback(func() {
			s.markSpeaking(id)
			s.emitEvent(events.NewAssistantSpeechStarted(text))
		}),
		speechoutput.WithSpeechAudioCallback(func(chunk []byte) {
			if s.isCurrent(id) {
				s.audioOutput.SendAudio(chunk)
			}
		}),
	)
	if err != nil {
		// Synthesis errors are not fatal, the slot just goes silent.
		log.Println("Warning: speech synthesis failed", "error", err)
		s.emitEvent(events.NewAssistantSpeechFailed(err.Error()))
		return
	}

	if !s.isCurrent(id) {
		return
	}

	s.audioOutput.AwaitMark()

	if s.isCurrent(id) {
		s.emitEvent(events.NewAssistantSpeechEnded(text))
	}
}

func (s *speechOutput) markSpeaking(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == id {
		s.speaking = true
	}
}

func (s *speechOutput) isCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID == id
}

func (s *speechOutput) finish(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID != id {
		return
	}

	s.speaking = false
	s.activeID = ""
	if s.activeCancel != nil {
		s.activeCancel()
		s.activeCancel = nil
	}
}
