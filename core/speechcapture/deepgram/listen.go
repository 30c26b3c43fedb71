package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/voxloop/voxloop/core/audio"
	"github.com/voxloop/voxloop/core/speechcapture"
	"github.com/voxloop/voxloop/internal/utils"
)

const defaultLanguage = "en-US"

// ListenClient streams microphone audio to Deepgram's live listen API and
// turns its endpointing signals into finalized utterances.
type ListenClient struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	lastMsgTs time.Time

	accumulatedTranscript string
	interimTranscript     string
	unendedSegment        bool
}

func NewListenClient() *ListenClient {
	return &ListenClient{}
}

// Listen opens a live transcription session. One-shot sessions (the default)
// close autonomously after the first finalized utterance.
func (c *ListenClient) Listen(ctx context.Context, opts ...speechcapture.ListenOption) error {
	options := &speechcapture.ListenOptions{
		Language:     defaultLanguage,
		EncodingInfo: audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(options)
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := connectWebsocket(connectionOptions{
		sampleRate: encoding.SampleRate,
		encoding:   encoding.Format.Name(),
		language:   options.Language,
	})
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.accumulatedTranscript = ""
	c.interimTranscript = ""
	c.unendedSegment = false
	c.connMu.Unlock()

	go c.readAndProcessMessages(ctx, conn, *options)

	return nil
}

type connectionOptions struct {
	sampleRate int
	encoding   string
	language   string
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", options.language)
	queryParams.Set("smart_format", "true")
	// utterance_end_ms only works with interim results enabled.
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (c *ListenClient) SendAudio(audio []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}

	c.lastMsgTs = time.Now()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// Stop requests the session close. Deepgram flushes any buffered audio and
// finalizes before honoring it.
func (c *ListenClient) Stop() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		if err := c.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			return fmt.Errorf("failed to close deepgram stream through websocket: %w", err)
		}
	}
	return nil
}

func (c *ListenClient) Close(_ context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("failed to close deepgram connection: %w", err)
		}
		c.conn = nil
	}
	return nil
}

func (c *ListenClient) sendKeepAlive() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}

	if err := c.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		log.Println("Failed to write to deepgram client", "error", err)
	}
}

func (c *ListenClient) sendSilence(audio []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (c *ListenClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, options speechcapture.ListenOptions) {
	silenceCtx, silenceCancel := context.WithCancel(ctx)
	defer silenceCancel()

	go c.generateSilence(silenceCtx, options.EncodingInfo)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Failed to read deepgram websocket message", "error", err)
			}

			c.connMu.Lock()
			c.conn = nil
			c.connMu.Unlock()
			conn.Close()

			if options.ListeningEndedCallback != nil {
				options.ListeningEndedCallback()
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			c.processMessage(msg, options)
		}
	}
}

func (c *ListenClient) processMessage(msg []byte, options speechcapture.ListenOptions) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if len(msgResp.Channel.Alternatives) > 0 {
			transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
			if len(transcript) > 0 {
				if msgResp.IsFinal {
					c.accumulatedTranscript = strings.TrimSpace(c.accumulatedTranscript + " " + transcript)
					c.interimTranscript = ""
				} else {
					c.interimTranscript = transcript
				}

				if options.InterimTranscriptionCallback != nil {
					options.InterimTranscriptionCallback(
						strings.TrimSpace(c.accumulatedTranscript + " " + c.interimTranscript))
				}
			}
		}

		if msgResp.IsFinal && msgResp.SpeechFinal {
			c.finalizeUtterance(options)
		}

	case api.TypeUtteranceEndResponse:
		var msgResp api.UtteranceEndResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if c.unendedSegment {
			c.finalizeUtterance(options)
		}

	case api.TypeSpeechStartedResponse:
		var msgResp api.SpeechStartedResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		c.unendedSegment = true
		if options.SpeechStartedCallback != nil {
			options.SpeechStartedCallback()
		}
	}
}

func (c *ListenClient) finalizeUtterance(options speechcapture.ListenOptions) {
	c.unendedSegment = false

	fullTranscript := strings.TrimSpace(c.accumulatedTranscript)
	c.accumulatedTranscript = ""
	c.interimTranscript = ""

	if options.SpeechEndedCallback != nil {
		options.SpeechEndedCallback()
	}

	if len(fullTranscript) == 0 {
		return
	}

	if options.UtteranceCallback != nil {
		options.UtteranceCallback(fullTranscript)
	}

	// One-shot sessions end themselves once an utterance is out.
	if !options.Continuous {
		if err := c.Stop(); err != nil {
			log.Println("Failed to close one-shot deepgram session", "error", err)
		}
	}
}

func (c *ListenClient) generateSilence(ctx context.Context, encoding audio.EncodingInfo) {
	type silenceGeneratorState string
	const (
		silenceGeneratorStateWaiting   silenceGeneratorState = "waiting"
		silenceGeneratorStateSilence   silenceGeneratorState = "silence"
		silenceGeneratorStateKeepAlive silenceGeneratorState = "keepAlive"
	)

	const durationMs = 50
	const millisecondsPerSecond = 1000
	ticker := time.NewTicker(durationMs * time.Millisecond)

	chunk := make([]byte, encoding.SampleRate*encoding.Format.ByteSize()*durationMs/millisecondsPerSecond)
	for i := range chunk {
		chunk[i] = encoding.SilenceValue()
	}

	var state = silenceGeneratorStateWaiting
	var firstSilenceTime *time.Time
	var lastKeepAliveTime *time.Time
	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			return
		case <-ticker.C:
			switch state {
			case silenceGeneratorStateWaiting:
				if time.Since(c.lastMsgTs).Milliseconds() > 50 {
					state = silenceGeneratorStateSilence
					firstSilenceTime = utils.Ptr(time.Now())
					continue
				}

			case silenceGeneratorStateSilence:
				if time.Since(c.lastMsgTs).Milliseconds() < 50 {
					state = silenceGeneratorStateWaiting
					firstSilenceTime = nil
					continue
				}
				if time.Since(*firstSilenceTime).Milliseconds() >= 1000 {
					state = silenceGeneratorStateKeepAlive
					lastKeepAliveTime = utils.Ptr(time.Now())
					firstSilenceTime = nil
					continue
				}

				if err := c.sendSilence(chunk); err != nil {
					log.Println("Sending silence audio error", err)
				}

			case silenceGeneratorStateKeepAlive:
				if time.Since(c.lastMsgTs).Milliseconds() < 50 {
					state = silenceGeneratorStateWaiting
					continue
				}

				if time.Since(*lastKeepAliveTime).Seconds() >= 5 {
					lastKeepAliveTime = utils.Ptr(time.Now())
					c.sendKeepAlive()
				}
			}
		}
	}
}
