package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/voxloop/voxloop/core/events"
	"github.com/voxloop/voxloop/internal/utils"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const orchestratorQueueCapacity = 16

const (
	micUnavailableNotice = "The microphone is not available right now, so I can't listen."
	resetConfirmation    = "Okay, I've reset our conversation."
)

var (
	ErrMicrophoneUnavailable = errors.New("microphone unavailable")
	ErrAlreadySpeaking       = errors.New("speech output already active")
	ErrEmptySpeechText       = errors.New("speech text is empty")
)

// orchestratorEvent is an item on the orchestrator's single logical event
// queue. Commands from the UI surface and signals from the capture and
// inference paths all go through it, so they are processed in arrival order
// by one goroutine.
type orchestratorEvent interface{}

type commandStartListening struct{}
type commandStopListening struct{}
type commandReset struct{}

type eventInterimTranscript struct{ transcript string }
type eventUtteranceFinalized struct{ transcript string }
type eventListeningEnded struct{}

type eventTurnResolved struct {
	epoch uint64
	turn  *ConversationTurn
	reply string
	err   error
}

// Orchestrator coordinates speech capture, remote inference and speech
// output into non-overlapping conversational turns. At most one turn is
// pending at any time, and at most one utterance of synthesized speech is
// active at any time.
type Orchestrator struct {
	guard utteranceGuard

	capture     *speechCapture
	audioInput  *audioInput
	audioOutput *audioOutput
	speaker     *speechOutput
	inference   *inferenceRunner

	captureLanguage   string
	continuousCapture bool

	queue   chan orchestratorEvent
	closeCh chan struct{}
	done    chan struct{}

	started   atomic.Bool
	closeOnce sync.Once

	emitEvent          eventEmitter
	orchestrateOptions OrchestrateOptions
	baseContext        context.Context

	mu         sync.RWMutex
	state      State
	listening  bool
	interim    string
	lastReply  string
	lastTurn   *ConversationTurn
	activeTurn *ConversationTurn
	// epoch is bumped whenever in-flight work is abandoned (reset, new
	// listening session) so a stale inference resolution cannot be spoken.
	epoch uint64
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	audioOutput := newAudioOutput(nil)

	o := &Orchestrator{
		capture:     newSpeechCapture(nil),
		audioInput:  newAudioInput(nil),
		audioOutput: audioOutput,
		speaker:     newSpeechOutput(nil, audioOutput),
		inference:   newInferenceRunner(nil),

		queue:   make(chan orchestratorEvent, orchestratorQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),

		emitEvent:   noopEventEmitter,
		baseContext: context.Background(),
		state:       StateIdle,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Orchestrate starts the orchestrator's event loop.
//
// ctx is used as a base context for capture, inference and synthesis calls,
// allowing for cancellation.
//
// Contract: call Orchestrate at most once per orchestrator instance.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) {
	if o.isClosed() {
		log.Println("Warning: orchestrator already closed, skipping Orchestrate")
		return
	}
	if !o.started.CompareAndSwap(false, true) {
		log.Println("Warning: orchestrator already running, skipping Orchestrate")
		return
	}

	o.orchestrateOptions = OrchestrateOptions{}
	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	o.baseContext = ctx
	o.emitEvent = newCallbackEventEmitter(o.orchestrateOptions)
	o.speaker.SetEventEmitter(o.emitEvent)

	go o.run(ctx)
	go func() {
		<-ctx.Done()
		o.Close()
	}()
}

func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		close(o.closeCh)

		o.speaker.Cancel()

		if err := o.audioInput.StopCapture(); err != nil {
			log.Println("Failed to stop audio capture", "error", err)
		}

		if err := o.capture.Close(o.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close speech capture client: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if o.started.Load() {
			<-o.done
		}
	})
}

// StartListening begins a new capture session: the dedupe memo and the
// displayed reply are cleared, any in-progress speech output is cancelled,
// and the capture service starts listening. It is refused, with a spoken
// notice, when no microphone is usable.
func (o *Orchestrator) StartListening() error {
	if !o.micAvailable() {
		o.emitEvent(events.NewMicrophoneUnavailable())
		o.speaker.Speak(o.baseContext, micUnavailableNotice)
		return ErrMicrophoneUnavailable
	}

	o.enqueue(commandStartListening{})
	return nil
}

// StopListening requests the capture service stop. It does not speak
// feedback; any utterance the stop flushes out goes through the normal
// finalized path.
func (o *Orchestrator) StopListening() error {
	o.enqueue(commandStopListening{})
	return nil
}

// Reset clears the dedupe memo and the displayed reply and speaks a fixed
// confirmation. Available from any state, idempotent.
func (o *Orchestrator) Reset() {
	o.enqueue(commandReset{})
}

// SpeakText speaks text directly, bypassing the guard and the inference
// client. It is only available while nothing else is being spoken.
func (o *Orchestrator) SpeakText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptySpeechText
	}
	if o.speaker.IsSpeaking() {
		return ErrAlreadySpeaking
	}

	o.speaker.Speak(o.baseContext, text)
	return nil
}

func (o *Orchestrator) IsListening() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.listening
}

func (o *Orchestrator) IsSpeaking() bool { return o.speaker.IsSpeaking() }

func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// OutputState reports the speech output slot state for UI reflection.
func (o *Orchestrator) OutputState() OutputState { return o.speaker.State() }

func (o *Orchestrator) micAvailable() bool {
	return o.capture.isConfigured() && o.audioInput.Available()
}

func (o *Orchestrator) isClosed() bool {
	select {
	case <-o.closeCh:
		return true
	default:
		return false
	}
}

func (o *Orchestrator) enqueue(event orchestratorEvent) {
	select {
	case <-o.closeCh:
	case o.queue <- event:
	}
}

func (o *Orchestrator) run(ctx context.Context) {
	defer close(o.done)

	for {
		select {
		case <-o.closeCh:
			return
		case <-ctx.Done():
			return
		case event := <-o.queue:
			o.dispatch(ctx, event)
		}
	}
}

func (o *Orchestrator) dispatch(ctx context.Context, event orchestratorEvent) {
	switch typedEvent := event.(type) {
	case commandStartListening:
		o.handleStartListening(ctx)
	case commandStopListening:
		o.handleStopListening()
	case commandReset:
		o.handleReset(ctx)
	case eventInterimTranscript:
		o.handleInterimTranscript(typedEvent)
	case eventUtteranceFinalized:
		o.handleUtteranceFinalized(ctx, typedEvent)
	case eventListeningEnded:
		o.handleListeningEnded()
	case eventTurnResolved:
		o.handleTurnResolved(ctx, typedEvent)
	}
}

func (o *Orchestrator) handleStartListening(ctx context.Context) {
	o.guard.Clear()
	o.supersedeActiveTurn()
	o.speaker.Cancel()

	o.mu.Lock()
	o.lastReply = ""
	o.interim = ""
	o.mu.Unlock()

	callbacks := speechCaptureCallbacks{
		onInterimTranscription: func(transcript string) {
			o.enqueue(eventInterimTranscript{transcript: transcript})
		},
		onUtterance: func(transcript string) {
			o.enqueue(eventUtteranceFinalized{transcript: transcript})
		},
		onListeningEnded: func() {
			o.enqueue(eventListeningEnded{})
		},
	}

	if err := o.capture.start(ctx, callbacks,
		utils.Ptr(o.audioInput.EncodingInfo()),
		o.captureLanguage, o.continuousCapture,
	); err != nil {
		log.Println("Failed to start capture session", "error", err)
		o.emitEvent(events.NewMicrophoneUnavailable())
		o.speaker.Speak(ctx, micUnavailableNotice)
		return
	}

	if err := o.audioInput.StartCapture(ctx, func(audio []byte) {
		if err := o.capture.SendAudio(audio); err != nil {
			log.Println("Failed to forward audio to capture client", "error", err)
		}
	}); err != nil {
		log.Println("Failed to start audio capture", "error", err)
	}

	o.mu.Lock()
	o.state = StateListening
	o.listening = true
	o.mu.Unlock()

	o.emitEvent(events.NewUserListeningStarted())
}

func (o *Orchestrator) handleStopListening() {
	if err := o.capture.Stop(); err != nil {
		log.Println("Failed to stop capture session", "error", err)
	}
}

func (o *Orchestrator) handleReset(ctx context.Context) {
	o.guard.Clear()
	o.supersedeActiveTurn()

	wasListening := o.IsListening()

	o.mu.Lock()
	o.lastReply = ""
	o.interim = ""
	o.lastTurn = nil
	o.state = StateIdle
	o.mu.Unlock()

	if wasListening {
		if err := o.capture.Stop(); err != nil {
			log.Println("Failed to stop capture session", "error", err)
		}
	}

	o.speaker.Speak(ctx, resetConfirmation)
}

func (o *Orchestrator) handleInterimTranscript(event eventInterimTranscript) {
	o.mu.Lock()
	o.interim = event.transcript
	o.mu.Unlock()

	o.emitEvent(events.NewUserTranscriptInterimUpdated(event.transcript))
}

func (o *Orchestrator) handleUtteranceFinalized(ctx context.Context, event eventUtteranceFinalized) {
	transcript := strings.TrimSpace(event.transcript)
	if transcript == "" {
		return
	}

	o.emitEvent(events.NewUserUtteranceFinalized(transcript))

	// Drop policy: while a turn is pending, newer finalized utterances are
	// dropped rather than queued, favoring latest spoken feedback over
	// backlog.
	if o.State() == StateAwaitingReply {
		logger.WarnContext(ctx, "dropping finalized utterance while a turn is pending",
			"transcript", transcript)
		return
	}

	if !o.guard.Accept(transcript) {
		o.emitEvent(events.NewUserUtteranceDuplicate(transcript))
		return
	}

	turn := newConversationTurn(transcript)

	o.mu.Lock()
	o.activeTurn = turn
	o.state = StateAwaitingReply
	o.interim = ""
	epoch := o.epoch
	o.mu.Unlock()

	o.emitEvent(events.NewTurnStarted(turn.ID, transcript))

	go o.resolveTurn(ctx, epoch, turn)
}

func (o *Orchestrator) resolveTurn(ctx context.Context, epoch uint64, turn *ConversationTurn) {
	reply, err := o.inference.request(ctx, turn.Input.Text)
	o.enqueue(eventTurnResolved{epoch: epoch, turn: turn, reply: reply, err: err})
}

func (o *Orchestrator) handleTurnResolved(ctx context.Context, event eventTurnResolved) {
	o.mu.Lock()
	if event.epoch != o.epoch {
		o.mu.Unlock()
		o.emitEvent(events.NewTurnSuperseded(event.turn.ID))
		return
	}
	o.activeTurn = nil
	o.state = StateIdle
	o.mu.Unlock()

	if event.err != nil {
		event.turn.Status = TurnStatusFailed
		event.turn.ErrorDetail = errorDetail(event.err)

		o.mu.Lock()
		o.lastTurn = event.turn
		o.mu.Unlock()

		o.speaker.Speak(ctx, spokenFallback(event.err))
		o.emitEvent(events.NewTurnFailed(event.turn.ID, event.turn.ErrorDetail))
		return
	}

	event.turn.Status = TurnStatusSucceeded
	event.turn.Reply = event.reply

	o.mu.Lock()
	o.lastTurn = event.turn
	o.lastReply = event.reply
	o.mu.Unlock()

	o.speaker.Speak(ctx, event.reply)
	o.emitEvent(events.NewTurnCompleted(event.turn.ID, event.reply))
}

func (o *Orchestrator) handleListeningEnded() {
	if err := o.audioInput.StopCapture(); err != nil {
		log.Println("Failed to stop audio capture", "error", err)
	}

	o.mu.Lock()
	o.listening = false
	if o.state == StateListening {
		o.state = StateIdle
	}
	o.mu.Unlock()

	o.emitEvent(events.NewUserListeningEnded())
}

func (o *Orchestrator) supersedeActiveTurn() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.epoch++
	o.activeTurn = nil
	if o.state == StateAwaitingReply {
		o.state = StateIdle
	}
}
