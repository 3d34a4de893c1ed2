package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gudangops/wardeck/internal/state"
	"github.com/gudangops/wardeck/pkg/models"
)

func (m model) handleAssistantKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.sendChat()
	case "ctrl+o":
		m.attaching = true
		return m, m.attachPicker.Init()
	case "ctrl+x":
		m.deps.Chat.Clear()
		m.attachmentPath = ""
		m.refreshTranscript()
		return m, nil
	case "esc":
		m.attachmentPath = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m model) updateAttachPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.attaching = false
		return m, nil
	}
	var cmd tea.Cmd
	m.attachPicker, cmd = m.attachPicker.Update(msg)
	if ok, path := m.attachPicker.DidSelectFile(msg); ok {
		m.attachmentPath = path
		m.attaching = false
	}
	return m, cmd
}

// sendChat runs the optimistic half of the exchange: the input clears
// and the user turn renders before the request resolves.
func (m model) sendChat() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.chatInput.Value())
	attachName := ""
	if m.attachmentPath != "" {
		attachName = filepath.Base(m.attachmentPath)
	}

	question, err := m.deps.Chat.BeginExchange(input, attachName)
	if err != nil {
		// Nothing to send, or a send is already outstanding. Either
		// way the transcript is untouched and no request goes out.
		if !errors.Is(err, state.ErrEmptyMessage) && !errors.Is(err, state.ErrExchangeInFlight) {
			m.deps.Logger.Warn("chat send rejected")
		}
		return m, nil
	}

	attachmentPath := m.attachmentPath
	m.attachmentPath = ""
	m.chatInput.SetValue("")
	m.refreshTranscript()
	return m, sendChatCmd(m.ctx, m.deps.API, question, attachmentPath)
}

func (m *model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.transcript.SetContent(m.renderTranscript())
	m.transcript.GotoBottom()
}

func (m model) renderTranscript() string {
	userStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	timeStyle := dimStyle

	wrapWidth := m.width - 6
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var s strings.Builder
	for _, turn := range m.deps.Chat.Turns() {
		label := assistantStyle.Render("assistant")
		if turn.Role == models.RoleUser {
			label = userStyle.Render("you")
		}
		s.WriteString(fmt.Sprintf("%s %s\n", label, timeStyle.Render(turn.Timestamp.Format("15:04"))))
		for _, line := range wrapText(turn.Content, wrapWidth) {
			s.WriteString("  " + line + "\n")
		}
		s.WriteString("\n")
	}
	return s.String()
}

func (m model) renderAssistant() string {
	var s strings.Builder
	s.WriteString(m.transcript.View() + "\n")

	if m.deps.Chat.Typing() {
		s.WriteString("  " + m.loading.View() + dimStyle.Render("  assistant is typing") + "\n")
	}
	if m.attachmentPath != "" {
		s.WriteString(dimStyle.Render("  attachment: "+filepath.Base(m.attachmentPath)+" (esc to drop)") + "\n")
	}
	s.WriteString(m.chatInput.View())
	return s.String()
}

func (m model) renderAttachPicker() string {
	header := sectionTitleStyle.Render("Attach a document") + "\n" +
		dimStyle.Render("esc to cancel") + "\n\n"
	return header + m.attachPicker.View()
}
