package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/voxloop/voxloop/core"
	"github.com/voxloop/voxloop/core/audio/miniaudio"
	"github.com/voxloop/voxloop/core/inference/backend"
	capturedeepgram "github.com/voxloop/voxloop/core/speechcapture/deepgram"
	outputdeepgram "github.com/voxloop/voxloop/core/speechoutput/deepgram"
)

const (
	sidebarWidth      = 33
	sidebarPadding    = 1
	sidebarOuterWidth = sidebarWidth + sidebarPadding*2

	viewportPadding = 1

	defaultBackendURL = "http://localhost:8080"
)

type lineMsg string
type interimTranscriptMsg string
type listeningMsg bool
type speakingMsg bool

var program *tea.Program

type model struct {
	orchestrator *orchestration.Orchestrator

	termWidth  int
	termHeight int
	ready      bool

	listening         bool
	speaking          bool
	interimTranscript string
	statusLine        string

	lines []string

	viewport        viewport.Model
	input           textinput.Model
	automaticScroll bool
}

func newModel(orchestrator *orchestration.Orchestrator) model {
	input := textinput.New()
	input.Placeholder = "Type text to speak, Enter to send"
	input.Focus()

	return model{
		orchestrator:    orchestrator,
		input:           input,
		automaticScroll: true,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	viewportHeight := m.termHeight - viewportPadding*2 - 5

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height

		viewportHeight = m.termHeight - viewportPadding*2 - 5
		if !m.ready {
			m.viewport = viewport.New(m.viewportWidth(), viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.viewportWidth()
			m.viewport.Height = viewportHeight
		}
		m.viewport.SetContent(m.getContent())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+l":
			if m.listening {
				if err := m.orchestrator.StopListening(); err != nil {
					m.statusLine = err.Error()
				}
			} else if err := m.orchestrator.StartListening(); err != nil {
				m.statusLine = err.Error()
			}
			return m, nil

		case "ctrl+r":
			m.orchestrator.Reset()
			m.lines = nil
			m.interimTranscript = ""
			m.statusLine = ""
			m.viewport.SetContent(m.getContent())
			return m, nil

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if err := m.orchestrator.SpeakText(text); err != nil {
				m.statusLine = err.Error()
				return m, nil
			}
			m.statusLine = ""
			m.input.Reset()
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}

	case lineMsg:
		m.lines = append(m.lines, string(msg))
		m.viewport.SetContent(m.getContent())
		if m.automaticScroll {
			m.viewport.GotoBottom()
		}

	case interimTranscriptMsg:
		m.interimTranscript = string(msg)
		m.viewport.SetContent(m.getContent())

	case listeningMsg:
		m.listening = bool(msg)
		if !m.listening {
			m.interimTranscript = ""
			m.viewport.SetContent(m.getContent())
		}

	case speakingMsg:
		m.speaking = bool(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	if m.viewport.AtBottom() {
		m.automaticScroll = true
	} else {
		m.automaticScroll = false
	}

	return m, tea.Batch(cmds...)
}

func (m model) viewportWidth() int {
	return m.termWidth - sidebarOuterWidth - viewportPadding*2
}

func (m model) getContent() string {
	content := strings.Join(m.lines, "\n")
	if m.interimTranscript != "" {
		content += "\n… " + strings.TrimSpace(m.interimTranscript)
	}
	return wordwrap.String(strings.TrimSpace(content), m.viewportWidth()-4)
}

func (m model) View() string {
	if m.termWidth == 0 {
		return "Loading..."
	}

	mainStyle := lipgloss.NewStyle().
		Padding(1).
		Width(m.termWidth - sidebarOuterWidth).
		Height(m.termHeight - 5)

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(sidebarPadding).
		Width(sidebarWidth).
		Height(m.termHeight - 2)

	mainContent := mainStyle.Render(m.viewport.View())

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	snapshot := m.orchestrator.Snapshot()
	sidebar := sidebarStyle.Render(strings.Join([]string{
		fmt.Sprintf("%s: %s", labelStyle.Render("Listening"),
			valueStyle.Render(fmt.Sprintf("%v", m.listening))),
		fmt.Sprintf("%s: %s", labelStyle.Render("Awaiting Reply"),
			valueStyle.Render(fmt.Sprintf("%v", snapshot.AwaitingReply))),
		fmt.Sprintf("%s: %s", labelStyle.Render("Speaking"),
			valueStyle.Render(fmt.Sprintf("%v", m.speaking))),
		fmt.Sprintf("%s: %s", labelStyle.Render("Microphone"),
			valueStyle.Render(fmt.Sprintf("%v", snapshot.MicrophoneAvailable))),
		"",
		fmt.Sprintf("%s:", labelStyle.Render("Last Reply")),
		valueStyle.Render(wordwrap.String(snapshot.LastReply, sidebarWidth-2)),
	}, "\n"))

	status := m.statusLine
	if status == "" {
		status = "Ctrl+L listen · Ctrl+R reset · Esc quit"
	}
	footer := lipgloss.NewStyle().
		PaddingTop(1).
		Foreground(lipgloss.Color("241")).
		Render(status)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left,
			mainContent,
			m.input.View(),
			footer,
		),
		sidebar,
	)
}

func main() {
	_ = godotenv.Load()

	backendURL := os.Getenv("VOXLOOP_BACKEND_URL")
	if backendURL == "" {
		backendURL = defaultBackendURL
	}

	audioClient, err := miniaudio.NewClient()
	if err != nil {
		fmt.Printf("Error: failed to initialize audio devices: %v\n", err)
		os.Exit(1)
	}
	defer audioClient.Close()

	synthesisClient, err := outputdeepgram.NewSynthesisClient(outputdeepgram.VoiceAsteriaEN)
	if err != nil {
		fmt.Printf("Error: failed to initialize speech synthesis: %v\n", err)
		os.Exit(1)
	}

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithSpeechCaptureClient(capturedeepgram.NewListenClient()),
		orchestration.WithSpeechSynthesizer(synthesisClient),
		orchestration.WithInferenceClient(backend.NewClient(backendURL)),
		orchestration.WithAudioInput(audioClient),
		orchestration.WithAudioOutput(audioClient),
	)
	defer orchestrator.Close()

	program = tea.NewProgram(
		newModel(orchestrator),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orchestrator.Orchestrate(ctx,
		orchestration.WithListeningStateCallback(func(listening bool) {
			program.Send(listeningMsg(listening))
		}),
		orchestration.WithInterimTranscriptionCallback(func(transcript string) {
			program.Send(interimTranscriptMsg(transcript))
		}),
		orchestration.WithUtteranceCallback(func(transcript string) {
			program.Send(lineMsg("you: " + transcript))
		}),
		orchestration.WithReplyCallback(func(reply string) {
			program.Send(lineMsg("assistant: " + reply))
		}),
		orchestration.WithTurnFailedCallback(func(detail string) {
			program.Send(lineMsg("error: " + detail))
		}),
		orchestration.WithSpeakingStateCallback(func(speaking bool) {
			program.Send(speakingMsg(speaking))
		}),
		orchestration.WithMicrophoneUnavailableCallback(func() {
			program.Send(lineMsg("microphone unavailable"))
		}),
	)

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
