// Package events defines the typed orchestration event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.*
//   - turn_state.*
//   - assistant_speech.*
//
// user_input events
//
//   - UserListeningStarted (user_input.listening_started): a capture session
//     began.
//   - UserListeningEnded (user_input.listening_ended): the capture session
//     returned to idle, either on demand or autonomously after an utterance
//     was finalized.
//   - UserTranscriptInterimUpdated (user_input.transcript_interim_updated):
//     mutable interim transcript snapshot while the speaker is still talking.
//   - UserUtteranceFinalized (user_input.utterance_finalized): the capture
//     service determined the speaker paused and produced a stable transcript.
//   - UserUtteranceDuplicate (user_input.utterance_duplicate): a finalized
//     utterance matched the dedupe memo and was dropped.
//   - MicrophoneUnavailable (user_input.microphone_unavailable): a listening
//     request was refused because no capture device is usable.
//
// turn_state events
//
//   - TurnStarted (turn_state.started): an utterance was accepted and an
//     inference request is in flight.
//   - TurnCompleted (turn_state.completed): the backend returned a reply.
//   - TurnFailed (turn_state.failed): the inference request resolved with an
//     error; Detail carries the human-readable cause.
//   - TurnSuperseded (turn_state.superseded): a resolution arrived for a turn
//     that was abandoned by a reset or a new listening session.
//
// assistant_speech events
//
//   - AssistantSpeechStarted (assistant_speech.started): synthesized output
//     began playing.
//   - AssistantSpeechEnded (assistant_speech.ended): output finished
//     naturally.
//   - AssistantSpeechFailed (assistant_speech.failed): the output engine
//     errored; the speaking slot was forced back to silent.
package events
