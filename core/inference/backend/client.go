// Package backend is the HTTP client for the voxloop inference backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/voxloop/voxloop/core/inference"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const conversePath = "/api/converse"

type converseRequest struct {
	Transcript string `json:"transcript"`
}

type converseResponse struct {
	Response string `json:"response"`
}

type converseError struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client, mostly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Infer sends one utterance to the backend and classifies the outcome. A
// single attempt is made; retry-by-next-utterance is the caller's policy.
func (c *Client) Infer(ctx context.Context, transcript string) (string, error) {
	body, err := json.Marshal(converseRequest{Transcript: transcript})
	if err != nil {
		return "", fmt.Errorf("failed to marshal converse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+conversePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create converse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", inference.NewTransportError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Error bodies are best effort, fall back to the status text.
		message := http.StatusText(resp.StatusCode)
		var errorBody converseError
		if err := json.NewDecoder(resp.Body).Decode(&errorBody); err == nil && errorBody.Error != "" {
			message = errorBody.Error
		}
		return "", inference.NewServerError(resp.StatusCode, message)
	}

	var replyBody converseResponse
	if err := json.NewDecoder(resp.Body).Decode(&replyBody); err != nil {
		return "", inference.NewMalformedResponseError("backend response is not valid JSON")
	}
	if strings.TrimSpace(replyBody.Response) == "" {
		return "", inference.NewMalformedResponseError("backend response has no reply")
	}

	return replyBody.Response, nil
}
