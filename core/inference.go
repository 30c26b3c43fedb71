package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/voxloop/voxloop/core/inference"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// inferenceRunner is the inference facade. The orchestrator never issues a
// second request before the first resolves, and no retries are made; the
// caller's next utterance is the retry.
type inferenceRunner struct {
	client InferenceClient
}

func newInferenceRunner(client InferenceClient) *inferenceRunner {
	return &inferenceRunner{client: client}
}

func (r *inferenceRunner) set(client InferenceClient) {
	if r != nil {
		r.client = client
	}
}

func (r *inferenceRunner) isConfigured() bool {
	return r != nil && r.client != nil
}

func (r *inferenceRunner) request(ctx context.Context, transcript string) (string, error) {
	ctx, span := tracer.Start(ctx, "inference request")
	defer span.End()
	span.SetAttributes(attribute.Int("utterance.length", len(transcript)))

	if !r.isConfigured() {
		err := inference.NewTransportError("inference client not configured")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	reply, err := r.client.Infer(ctx, transcript)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return reply, nil
}

// errorDetail extracts the human-readable cause used in spoken fallbacks.
func errorDetail(err error) string {
	var inferenceErr *inference.Error
	if errors.As(err, &inferenceErr) {
		return inferenceErr.Detail()
	}
	return err.Error()
}

// spokenFallback composes the fixed feedback phrase for a failed turn.
func spokenFallback(err error) string {
	return fmt.Sprintf("Sorry, I ran into a problem: %s", errorDetail(err))
}
