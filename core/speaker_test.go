package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/voxloop/voxloop/core/events"
)

func newTestSpeaker(synthesizer SpeechSynthesizer) (*speechOutput, chan events.Event) {
	speaker := newSpeechOutput(synthesizer, newAudioOutput(nil))

	emitted := make(chan events.Event, 16)
	speaker.SetEventEmitter(func(event events.Event) { emitted <- event })

	return speaker, emitted
}

func waitForEventKind(t *testing.T, ch <-chan events.Event, kind events.Kind) events.Event {
	t.Helper()

	deadline := time.After(testTimeout)
	for {
		select {
		case event := <-ch:
			if event.Kind() == kind {
				return event
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %q event", kind)
			return nil
		}
	}
}

func TestSpeakerIgnoresEmptyText(t *testing.T) {
	synthesizer := newSynthesizerStub()
	speaker, _ := newTestSpeaker(synthesizer)

	speaker.Speak(context.Background(), "")
	speaker.Speak(context.Background(), "   ")

	select {
	case text := <-synthesizer.started:
		t.Fatalf("Expected no synthesis for empty text, got %q", text)
	case <-time.After(100 * time.Millisecond):
	}

	if speaker.IsSpeaking() {
		t.Fatal("Expected speaker to stay silent")
	}
}

func TestSpeakerSpeaksAndReturnsToSilent(t *testing.T) {
	synthesizer := newSynthesizerStub()
	speaker, emitted := newTestSpeaker(synthesizer)

	if speaker.State() != OutputStateSilent {
		t.Fatalf("Expected initial output state to be silent, got %q", speaker.State())
	}

	speaker.Speak(context.Background(), "hello there")

	waitForEventKind(t, emitted, events.KindAssistantSpeechStarted)
	ended := waitForEventKind(t, emitted, events.KindAssistantSpeechEnded)

	if text := ended.(events.AssistantSpeechEnded).Text; text != "hello there" {
		t.Fatalf("Expected speech ended event for %q, got %q", "hello there", text)
	}

	waitUntil(t, "speaker to return to silent", func() bool {
		return speaker.State() == OutputStateSilent
	})
}

func TestSpeakerLastWriterWins(t *testing.T) {
	synthesizer := newSynthesizerStub()
	synthesizer.gate = make(chan struct{})
	speaker, emitted := newTestSpeaker(synthesizer)

	speaker.Speak(context.Background(), "first utterance")
	waitForString(t, synthesizer.started, "first utterance to start")

	speaker.Speak(context.Background(), "second utterance")
	waitForString(t, synthesizer.started, "second utterance to start")

	close(synthesizer.gate)

	ended := waitForEventKind(t, emitted, events.KindAssistantSpeechEnded)
	if text := ended.(events.AssistantSpeechEnded).Text; text != "second utterance" {
		t.Fatalf("Expected only the second utterance to finish, got %q", text)
	}

	select {
	case event := <-emitted:
		if event.Kind() == events.KindAssistantSpeechEnded {
			t.Fatal("Expected the terminated utterance to never finish")
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSpeakerCancelForcesSilent(t *testing.T) {
	synthesizer := newSynthesizerStub()
	synthesizer.gate = make(chan struct{})
	speaker, emitted := newTestSpeaker(synthesizer)

	speaker.Speak(context.Background(), "about to be cut off")
	waitForString(t, synthesizer.started, "utterance to start")

	waitUntil(t, "speaker to report speaking", speaker.IsSpeaking)

	speaker.Cancel()

	if speaker.IsSpeaking() {
		t.Fatal("Expected speaker to be silent after cancel")
	}

	close(synthesizer.gate)

	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case event := <-emitted:
			if event.Kind() == events.KindAssistantSpeechEnded {
				t.Fatal("Expected cancelled utterance to never finish")
			}
		case <-deadline:
			return
		}
	}
}

func TestSpeakerEmitsFailureOnSynthesisError(t *testing.T) {
	synthesizer := newSynthesizerStub()
	synthesizer.err = context.DeadlineExceeded
	speaker, emitted := newTestSpeaker(synthesizer)

	speaker.Speak(context.Background(), "doomed utterance")

	waitForEventKind(t, emitted, events.KindAssistantSpeechFailed)

	if speaker.IsSpeaking() {
		t.Fatal("Expected speaker to be silent after a failed synthesis")
	}
}
