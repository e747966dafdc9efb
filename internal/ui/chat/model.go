// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/atomity/internal/attach"
	"github.com/jeranaias/atomity/internal/config"
	"github.com/jeranaias/atomity/internal/model"
	"github.com/jeranaias/atomity/internal/ui/components"
	"github.com/jeranaias/atomity/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a reply stream
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
//
// The busy flag is the state field: while StateStreaming, input submission
// is ignored, which is what guarantees at most one stream in flight.
type Model struct {
	state State

	theme  *styles.Theme
	width  int
	height int

	conversation *model.Conversation

	// Current turn. streamingAtt is the attachment whose preview resource
	// is released when the turn's stream completes or errors.
	streamingMsgID  string
	streamingAtt    *model.Attachment
	streamingBuffer *StreamingBuffer

	runner *StreamRunner
	pre    *attach.Preprocessor

	// Path staged by /attach, consumed by the next submit.
	pendingAttach string

	header   components.Header
	mapView  components.MapView
	thinking components.ThinkingSpinner
	viewport viewport.Model
	input    textinput.Model

	showTimestamps bool
	showHelp       bool
	statusMsg      string
	logger         *zap.Logger
}

// New creates the chat model.
func New(theme *styles.Theme, runner *StreamRunner, pre *attach.Preprocessor, modelName string, uiCfg config.UIConfig, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Present your query, Officer..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	m := Model{
		state:           StateReady,
		theme:           theme,
		conversation:    model.NewConversation(),
		streamingBuffer: NewStreamingBuffer(),
		runner:          runner,
		pre:             pre,
		header:          components.NewHeader(theme, modelName),
		mapView:         components.NewMapView(theme, uiCfg.MapWidth, uiCfg.MapHeight),
		thinking:        components.NewThinkingSpinner(theme),
		viewport:        vp,
		input:           ti,
		showTimestamps:  uiCfg.ShowTimestamps,
		logger:          logger,
	}
	m.updateViewport()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		return m.handleStreamStart(msg)

	case StreamTokenMsg:
		return m.handleStreamToken(msg)

	case StreamTickMsg:
		return m.handleStreamTick(msg)

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)

	case StreamErrorMsg:
		return m.handleStreamError(msg)

	case spinner.TickMsg:
		if m.state == StateStreaming {
			var cmd tea.Cmd
			m.thinking, cmd = m.thinking.Update(msg)
			m.updateViewport()
			return m, cmd
		}
		return m, nil

	default:
		var cmds []tea.Cmd
		if m.state == StateReady {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// RESIZE AND KEY HANDLING
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// header (1) + input area (3) + status bar (1)
	const reservedHeight = 5
	viewportHeight := m.height - reservedHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = viewportHeight

	inputWidth := m.width - 8
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}

	m.updateViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == "ctrl+c" || keyStr == "ctrl+q" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch keyStr {
		case "esc", "q", "enter":
			m.showHelp = false
		}
		return m, nil
	}

	switch keyStr {
	case "esc":
		if m.state == StateStreaming {
			m.runner.Cancel()
			return m, nil
		}

	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
		return m, nil

	case "up":
		m.viewport.LineUp(1)
		return m, nil

	case "down":
		m.viewport.LineDown(1)
		return m, nil

	case "enter":
		if m.state == StateReady && strings.TrimSpace(m.input.Value()) != "" {
			return m.submitInput()
		}
		return m, nil
	}

	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput dispatches a slash command or starts a new turn.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.statusMsg = ""

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}
	return m.startTurn(text)
}

// startTurn preprocesses any staged attachment, appends the user message and
// the empty streaming AI message, and launches the stream.
func (m Model) startTurn(text string) (tea.Model, tea.Cmd) {
	prompt := text
	displayText := text
	var prepared *attach.Prepared

	if m.pendingAttach != "" {
		var err error
		prepared, err = m.pre.Process(m.pendingAttach, text)
		m.pendingAttach = ""
		if err != nil {
			m.statusMsg = "Error: " + err.Error()
			m.logger.Warn("attachment preprocessing failed", zap.Error(err))
			return m, nil
		}
		prompt = prepared.PromptText
		if displayText == "" {
			// Show the substituted default instruction, not the wrapped
			// document template.
			if prepared.Attachment.Kind == model.AttachmentImage {
				displayText = attach.DefaultImagePrompt
			} else {
				displayText = attach.DefaultDocumentQuery
			}
		}
	}

	var att *model.Attachment
	if prepared != nil {
		att = prepared.Attachment
	}
	m.conversation.AppendUser(displayText, att)

	aiMsg := m.conversation.AppendAI()
	m.streamingMsgID = aiMsg.ID
	m.streamingAtt = att
	m.state = StateStreaming

	if prepared != nil {
		m.runner.Start(aiMsg.ID, prompt, prepared.File)
	} else {
		m.runner.Start(aiMsg.ID, prompt, nil)
	}

	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// handleCommand executes a slash command.
func (m Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	parts := strings.SplitN(text, " ", 2)
	cmd := parts[0]
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/attach":
		if arg == "" {
			m.statusMsg = "Usage: /attach <path>"
			return m, nil
		}
		if _, _, err := attach.Classify(arg); err != nil {
			m.statusMsg = "Error: " + err.Error()
			return m, nil
		}
		m.pendingAttach = arg
		m.statusMsg = "Attached: " + arg + " (sent with your next message)"
		return m, nil

	case "/new":
		m.runner.Reset()
		m.conversation = model.NewConversation()
		m.pendingAttach = ""
		m.statusMsg = "New case opened"
		m.updateViewport()
		return m, nil

	case "/help":
		m.showHelp = true
		return m, nil

	case "/quit":
		return m, tea.Quit

	default:
		m.statusMsg = "Unknown command: " + cmd + " (try /help)"
		return m, nil
	}
}

// =============================================================================
// STREAM HANDLERS
// =============================================================================

func (m Model) handleStreamStart(msg StreamStartMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}
	m.streamingBuffer.Reset()
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.thinking.Tick(), streamTickCmd())
}

func (m Model) handleStreamToken(msg StreamTokenMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}
	m.streamingBuffer.Write(msg.Token)
	return m, nil
}

// handleStreamTick appends batched fragments and re-renders at 30fps.
func (m Model) handleStreamTick(StreamTickMsg) (tea.Model, tea.Cmd) {
	if m.state != StateStreaming {
		return m, nil
	}

	if content, ok := m.streamingBuffer.Flush(); ok {
		m.conversation.AppendToText(m.streamingMsgID, content)
		m.updateViewport()
		m.viewport.GotoBottom()
	}

	return m, streamTickCmd()
}

func (m Model) handleStreamComplete(msg StreamCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	if content, ok := m.streamingBuffer.ForceFlush(); ok {
		m.conversation.AppendToText(m.streamingMsgID, content)
	}
	m.conversation.FinalizeMessage(m.streamingMsgID)

	m.releaseTurnPreview()
	m.state = StateReady
	m.streamingMsgID = ""
	m.input.Focus()

	m.updateViewport()
	m.viewport.GotoBottom()
	return m, textinput.Blink
}

func (m Model) handleStreamError(msg StreamErrorMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	m.streamingBuffer.Reset()

	errText := "Error: " + msg.Error.Error()
	if errors.Is(msg.Error, context.Canceled) {
		errText = "Analysis cancelled."
	}
	m.conversation.UpdateText(m.streamingMsgID, errText)

	m.releaseTurnPreview()
	m.state = StateReady
	m.streamingMsgID = ""
	m.input.Focus()

	m.updateViewport()
	m.viewport.GotoBottom()
	return m, textinput.Blink
}

// releaseTurnPreview frees the turn's attachment preview exactly once.
func (m *Model) releaseTurnPreview() {
	if m.streamingAtt != nil {
		m.streamingAtt.ReleasePreview()
		m.streamingAtt = nil
	}
}

// =============================================================================
// VIEWPORT UPDATE
// =============================================================================

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}

// =============================================================================
// ACCESSORS
// =============================================================================

// GetState returns the current state.
func (m *Model) GetState() State {
	return m.state
}

// GetConversation returns the conversation.
func (m *Model) GetConversation() *model.Conversation {
	return m.conversation
}
