// Package httpserver exposes the voxloopd HTTP API: one converse endpoint
// for the voice orchestrator, a health probe, and the wire schema.
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ConverseRequest is the wire request of POST /api/converse.
type ConverseRequest struct {
	Transcript string `json:"transcript"`
}

// ConverseResponse is the wire response of a successful converse call.
type ConverseResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the wire shape of every non-200 converse outcome.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CompletionProvider resolves one transcript into one reply.
type CompletionProvider interface {
	Complete(ctx context.Context, transcript string) (string, error)
}

type converseHandler struct {
	provider CompletionProvider
	logger   *zap.Logger
}

func newConverseHandler(provider CompletionProvider, logger *zap.Logger) *converseHandler {
	return &converseHandler{provider: provider, logger: logger}
}

func (h *converseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ConverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "request body is not valid JSON"})
		return
	}

	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "transcript is empty"})
		return
	}

	reply, err := h.provider.Complete(r.Context(), transcript)
	if err != nil {
		h.logger.Error("completion failed",
			zap.Int("transcript_length", len(transcript)),
			zap.Error(err),
		)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "completion provider failed"})
		return
	}

	h.logger.Info("converse completed",
		zap.Int("transcript_length", len(transcript)),
		zap.Int("reply_length", len(reply)),
	)
	writeJSON(w, http.StatusOK, ConverseResponse{Response: reply})
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
