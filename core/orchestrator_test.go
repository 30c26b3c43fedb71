package orchestration

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/voxloop/voxloop/core/inference"
)

type testHarness struct {
	orchestrator *Orchestrator
	capture      *captureStub
	synthesizer  *synthesizerStub
	inference    *inferenceStub

	replies   chan string
	failures  chan string
	listening chan bool
	interim   chan string
}

func newTestHarness(t *testing.T, opts ...OrchestratorOption) *testHarness {
	t.Helper()

	h := &testHarness{
		capture:     newCaptureStub(),
		synthesizer: newSynthesizerStub(),
		inference:   &inferenceStub{},

		replies:   make(chan string, 8),
		failures:  make(chan string, 8),
		listening: make(chan bool, 8),
		interim:   make(chan string, 8),
	}

	opts = append([]OrchestratorOption{
		WithSpeechCaptureClient(h.capture),
		WithSpeechSynthesizer(h.synthesizer),
		WithInferenceClient(h.inference),
	}, opts...)
	h.orchestrator = NewOrchestrator(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(h.orchestrator.Close)

	h.orchestrator.Orchestrate(ctx,
		WithReplyCallback(func(reply string) { h.replies <- reply }),
		WithTurnFailedCallback(func(detail string) { h.failures <- detail }),
		WithListeningStateCallback(func(listening bool) { h.listening <- listening }),
		WithInterimTranscriptionCallback(func(transcript string) { h.interim <- transcript }),
	)

	return h
}

func (h *testHarness) startListening(t *testing.T) {
	t.Helper()

	if err := h.orchestrator.StartListening(); err != nil {
		t.Fatalf("Expected listening to start, got error: %v", err)
	}
	waitForSignal(t, h.capture.listenStarted, "capture session to start")
}

func TestStartListeningRefusedWithoutMicrophone(t *testing.T) {
	capture := newCaptureStub()
	synthesizer := newSynthesizerStub()
	orchestrator := NewOrchestrator(
		WithSpeechCaptureClient(capture),
		WithSpeechSynthesizer(synthesizer),
		WithInferenceClient(&inferenceStub{}),
		WithAudioInput(&audioInputStub{available: false}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(orchestrator.Close)

	micUnavailable := make(chan struct{}, 1)
	orchestrator.Orchestrate(ctx,
		WithMicrophoneUnavailableCallback(func() { micUnavailable <- struct{}{} }),
	)

	if err := orchestrator.StartListening(); !errors.Is(err, ErrMicrophoneUnavailable) {
		t.Fatalf("Expected ErrMicrophoneUnavailable, got %v", err)
	}

	waitForSignal(t, micUnavailable, "microphone unavailable notification")

	if spoken := waitForString(t, synthesizer.started, "spoken notice"); spoken != micUnavailableNotice {
		t.Fatalf("Expected spoken notice %q, got %q", micUnavailableNotice, spoken)
	}

	if orchestrator.IsListening() {
		t.Fatal("Expected orchestrator to stay out of listening")
	}
	if orchestrator.State() != StateIdle {
		t.Fatalf("Expected orchestrator to stay idle, got %q", orchestrator.State())
	}
}

func TestSuccessfulTurnSpeaksReply(t *testing.T) {
	h := newTestHarness(t)
	h.inference.reply = "It is 3:45 PM."

	h.startListening(t)
	if listening := <-h.listening; !listening {
		t.Fatal("Expected a listening started notification")
	}

	h.capture.finalize("what time is it")

	if reply := waitForString(t, h.replies, "reply"); reply != "It is 3:45 PM." {
		t.Fatalf("Expected reply %q, got %q", "It is 3:45 PM.", reply)
	}
	if spoken := waitForString(t, h.synthesizer.started, "spoken reply"); spoken != "It is 3:45 PM." {
		t.Fatalf("Expected spoken reply %q, got %q", "It is 3:45 PM.", spoken)
	}

	if count := h.inference.callCount(); count != 1 {
		t.Fatalf("Expected exactly one inference request, got %d", count)
	}
	if state := h.orchestrator.State(); state != StateIdle {
		t.Fatalf("Expected orchestrator to return to idle, got %q", state)
	}

	snapshot := h.orchestrator.Snapshot()
	if snapshot.LastReply != "It is 3:45 PM." {
		t.Fatalf("Expected snapshot to hold the reply, got %q", snapshot.LastReply)
	}
	if snapshot.LastTurn == nil {
		t.Fatal("Expected snapshot to hold the completed turn")
	}
	if snapshot.LastTurn.Status != TurnStatusSucceeded {
		t.Fatalf("Expected turn status %q, got %q", TurnStatusSucceeded, snapshot.LastTurn.Status)
	}
	if snapshot.LastTurn.Input.Text != "what time is it" {
		t.Fatalf("Expected turn input %q, got %q", "what time is it", snapshot.LastTurn.Input.Text)
	}
}

func TestDuplicateUtteranceTriggersOneRequest(t *testing.T) {
	h := newTestHarness(t)
	h.inference.reply = "pong"

	h.startListening(t)

	h.capture.finalize("ping")
	waitForString(t, h.replies, "first reply")

	// Re-emitted finalized transcript, then a distinct utterance to flush
	// the queue so the drop is observable.
	h.capture.finalize("ping")
	h.capture.finalize("something else")
	waitForString(t, h.replies, "second reply")

	if calls := h.inference.calledWith(); !reflect.DeepEqual(calls, []string{"ping", "something else"}) {
		t.Fatalf("Expected the duplicate to be dropped, got requests %v", calls)
	}
}

func TestStartListeningClearsDedupeMemoAndReply(t *testing.T) {
	h := newTestHarness(t)
	h.inference.reply = "pong"

	h.startListening(t)
	h.capture.finalize("ping")
	waitForString(t, h.replies, "first reply")

	h.startListening(t)

	if snapshot := h.orchestrator.Snapshot(); snapshot.LastReply != "" {
		t.Fatalf("Expected reply to be cleared by a new session, got %q", snapshot.LastReply)
	}

	h.capture.finalize("ping")
	waitForString(t, h.replies, "second reply")

	if count := h.inference.callCount(); count != 2 {
		t.Fatalf("Expected the repeated utterance to be accepted after a new session, got %d requests", count)
	}
}

func TestFailedTurnSpeaksFallbackAndKeepsMemo(t *testing.T) {
	h := newTestHarness(t)
	h.inference.err = inference.NewServerError(http.StatusInternalServerError, "model unavailable")

	h.startListening(t)
	h.capture.finalize("what time is it")

	if detail := waitForString(t, h.failures, "failure detail"); !strings.Contains(detail, "model unavailable") {
		t.Fatalf("Expected failure detail to carry the backend message, got %q", detail)
	}
	if spoken := waitForString(t, h.synthesizer.started, "spoken fallback"); !strings.Contains(spoken, "model unavailable") {
		t.Fatalf("Expected spoken fallback to carry the backend message, got %q", spoken)
	}

	snapshot := h.orchestrator.Snapshot()
	if snapshot.LastTurn == nil || snapshot.LastTurn.Status != TurnStatusFailed {
		t.Fatalf("Expected snapshot to hold the failed turn, got %+v", snapshot.LastTurn)
	}
	if snapshot.LastReply != "" {
		t.Fatalf("Expected no reply after a failed turn, got %q", snapshot.LastReply)
	}

	// A failed turn does not clear the memo: the exact same transcript is
	// still a duplicate until a new session or reset.
	h.capture.finalize("what time is it")
	h.capture.finalize("still there")
	waitForString(t, h.failures, "second failure detail")

	if calls := h.inference.calledWith(); !reflect.DeepEqual(calls, []string{"what time is it", "still there"}) {
		t.Fatalf("Expected the repeat to stay deduplicated after failure, got requests %v", calls)
	}
}

func TestWhitespaceUtteranceIgnored(t *testing.T) {
	h := newTestHarness(t)
	h.inference.reply = "hi"

	h.startListening(t)

	h.capture.finalize("   ")
	h.capture.finalize("hello")
	waitForString(t, h.replies, "reply")

	if calls := h.inference.calledWith(); !reflect.DeepEqual(calls, []string{"hello"}) {
		t.Fatalf("Expected only the non-empty utterance to trigger a request, got %v", calls)
	}
}

func TestInterimTranscriptForwardedAndClearedOnFinalize(t *testing.T) {
	h := newTestHarness(t)
	h.inference.reply = "hi"

	h.startListening(t)

	h.capture.interim("what ti")
	if transcript := waitForString(t, h.interim, "interim transcript"); transcript != "what ti" {
		t.Fatalf("Expected interim transcript %q, got %q", "what ti", transcript)
	}
	if snapshot := h.orchestrator.Snapshot(); snapshot.InterimTranscript != "what ti" {
		t.Fatalf("Expected snapshot to hold the interim transcript, got %q", snapshot.InterimTranscript)
	}

	h.capture.finalize("what time is it")
	waitForString(t, h.replies, "reply")

	if snapshot := h.orchestrator.Snapshot(); snapshot.InterimTranscript != "" {
		t.Fatalf("Expected interim transcript to be cleared on finalization, got %q", snapshot.InterimTranscript)
	}
}

func TestResetClearsStateAndSpeaksConfirmation(t *testing.T) {
	h := newTestHarness(t)
	h.inference.reply = "pong"

	h.startListening(t)
	h.capture.finalize("ping")
	waitForString(t, h.replies, "reply")
	waitForString(t, h.synthesizer.started, "spoken reply")

	h.orchestrator.Reset()

	if spoken := waitForString(t, h.synthesizer.started, "spoken confirmation"); spoken != resetConfirmation {
		t.Fatalf("Expected spoken confirmation %q, got %q", resetConfirmation, spoken)
	}

	snapshot := h.orchestrator.Snapshot()
	if snapshot.LastReply != "" {
		t.Fatalf("Expected reply to be cleared by reset, got %q", snapshot.LastReply)
	}
	if snapshot.LastTurn != nil {
		t.Fatalf("Expected turn history to be cleared by reset, got %+v", snapshot.LastTurn)
	}
	if snapshot.State != StateIdle {
		t.Fatalf("Expected idle state after reset, got %q", snapshot.State)
	}

	// Reset is idempotent: a second reset from idle behaves the same way.
	h.orchestrator.Reset()
	if spoken := waitForString(t, h.synthesizer.started, "second spoken confirmation"); spoken != resetConfirmation {
		t.Fatalf("Expected spoken confirmation %q, got %q", resetConfirmation, spoken)
	}

	// The memo is cleared as well, so the same phrase is new input again.
	h.startListening(t)
	h.capture.finalize("ping")
	waitForString(t, h.replies, "reply after reset")

	if count := h.inference.callCount(); count != 2 {
		t.Fatalf("Expected the repeated utterance to be accepted after reset, got %d requests", count)
	}
}

func TestStaleResolutionDroppedAfterReset(t *testing.T) {
	h := newTestHarness(t)
	h.inference.reply = "too late"
	h.inference.gate = make(chan struct{})

	h.startListening(t)
	h.capture.finalize("slow question")

	waitUntil(t, "inference request to be issued", func() bool {
		return h.inference.callCount() == 1
	})
	if state := h.orchestrator.State(); state != StateAwaitingReply {
		t.Fatalf("Expected orchestrator to await the reply, got %q", state)
	}

	h.orchestrator.Reset()
	if spoken := waitForString(t, h.synthesizer.started, "spoken confirmation"); spoken != resetConfirmation {
		t.Fatalf("Expected spoken confirmation %q, got %q", resetConfirmation, spoken)
	}

	close(h.inference.gate)

	select {
	case reply := <-h.replies:
		t.Fatalf("Expected the stale resolution to be dropped, got reply %q", reply)
	case <-time.After(100 * time.Millisecond):
	}

	snapshot := h.orchestrator.Snapshot()
	if snapshot.LastReply != "" {
		t.Fatalf("Expected no reply from a superseded turn, got %q", snapshot.LastReply)
	}
	if snapshot.State != StateIdle {
		t.Fatalf("Expected idle state, got %q", snapshot.State)
	}
}

func TestFinalizedUtteranceDroppedWhileAwaitingReply(t *testing.T) {
	h := newTestHarness(t)
	h.inference.reply = "answer"
	h.inference.gate = make(chan struct{})

	h.startListening(t)
	h.capture.finalize("first")

	waitUntil(t, "inference request to be issued", func() bool {
		return h.inference.callCount() == 1
	})

	// Arrives while the first turn is pending, so it is dropped, not queued.
	h.capture.finalize("second")

	close(h.inference.gate)
	waitForString(t, h.replies, "first reply")

	h.capture.finalize("third")
	waitForString(t, h.replies, "third reply")

	if calls := h.inference.calledWith(); !reflect.DeepEqual(calls, []string{"first", "third"}) {
		t.Fatalf("Expected the pending-turn utterance to be dropped, got requests %v", calls)
	}
}

func TestSpeakTextValidation(t *testing.T) {
	synthesizer := newSynthesizerStub()
	synthesizer.gate = make(chan struct{})
	orchestrator := NewOrchestrator(WithSpeechSynthesizer(synthesizer))
	t.Cleanup(orchestrator.Close)

	if err := orchestrator.SpeakText("   "); !errors.Is(err, ErrEmptySpeechText) {
		t.Fatalf("Expected ErrEmptySpeechText, got %v", err)
	}

	if err := orchestrator.SpeakText("hello"); err != nil {
		t.Fatalf("Expected manual speech to be accepted, got %v", err)
	}
	waitForString(t, synthesizer.started, "manual speech to start")
	waitUntil(t, "orchestrator to report speaking", orchestrator.IsSpeaking)

	if err := orchestrator.SpeakText("talking over"); !errors.Is(err, ErrAlreadySpeaking) {
		t.Fatalf("Expected ErrAlreadySpeaking, got %v", err)
	}

	close(synthesizer.gate)
	waitUntil(t, "orchestrator to go silent", func() bool {
		return !orchestrator.IsSpeaking()
	})

	if err := orchestrator.SpeakText("hello again"); err != nil {
		t.Fatalf("Expected manual speech to be accepted once silent, got %v", err)
	}
}

func TestStopListeningEndsSession(t *testing.T) {
	h := newTestHarness(t)

	h.startListening(t)
	if listening := <-h.listening; !listening {
		t.Fatal("Expected a listening started notification")
	}

	if err := h.orchestrator.StopListening(); err != nil {
		t.Fatalf("Expected stop to be accepted, got %v", err)
	}

	select {
	case listening := <-h.listening:
		if listening {
			t.Fatal("Expected a listening ended notification")
		}
	case <-time.After(testTimeout):
		t.Fatal("Timed out waiting for listening to end")
	}

	if h.orchestrator.IsListening() {
		t.Fatal("Expected orchestrator to leave listening")
	}
	if state := h.orchestrator.State(); state != StateIdle {
		t.Fatalf("Expected idle state after stop, got %q", state)
	}
}
