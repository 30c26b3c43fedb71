package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"

	"github.com/voxloop/voxloop/core/audio"
	"github.com/voxloop/voxloop/core/speechoutput"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const speakURL = "https://api.deepgram.com/v1/speak"

type deepgramVoice string

const (
	VoiceAsteriaEN deepgramVoice = "aura-2-asteria-en"
	VoiceThaliaEN  deepgramVoice = "aura-2-thalia-en"
	VoiceOrionEN   deepgramVoice = "aura-2-orion-en"
)

var defaultVoice = VoiceAsteriaEN

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceAsteriaEN, VoiceThaliaEN, VoiceOrionEN}
}

// SynthesisClient turns text into PCM audio through Deepgram's REST speak
// API, one request per utterance.
type SynthesisClient struct {
	voice      deepgramVoice
	httpClient *http.Client
}

func NewSynthesisClient(voice deepgramVoice) (*SynthesisClient, error) {
	client := &SynthesisClient{
		voice:      defaultVoice,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}

	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	client.voice = voice

	return client, nil
}

func (c *SynthesisClient) SetVoice(voice deepgramVoice) {
	c.voice = voice
}

// Synthesize generates speech for text and streams the audio chunks to the
// configured callback. It blocks until generation finishes, fails, or ctx is
// cancelled.
func (c *SynthesisClient) Synthesize(ctx context.Context, text string, opts ...speechoutput.SynthesisOption) error {
	options := speechoutput.SynthesisOptions{
		SpeechAudioCallback:   func([]byte) {},
		SpeechStartedCallback: func() {},
		SpeechEndedCallback:   func() {},
		ErrorCallback:         func(error) {},
		EncodingInfo:          audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		err := fmt.Errorf("deepgram api key not found")
		options.ErrorCallback(err)
		return err
	}

	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal speak request: %w", err)
	}

	urlValues := url.Values{}
	urlValues.Set("model", string(c.voice))
	urlValues.Set("encoding", options.EncodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(options.EncodingInfo.SampleRate))
	urlValues.Set("container", "none")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		speakURL+"?"+urlValues.Encode(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create speak request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		err = fmt.Errorf("failed to reach deepgram speak api: %w", err)
		options.ErrorCallback(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("deepgram speak api returned %s", resp.Status)
		options.ErrorCallback(err)
		return err
	}

	options.SpeechStartedCallback()

	buffer := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			options.SpeechAudioCallback(chunk)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			err = fmt.Errorf("failed to read deepgram speak response: %w", err)
			options.ErrorCallback(err)
			return err
		}
	}

	options.SpeechEndedCallback()
	return nil
}
