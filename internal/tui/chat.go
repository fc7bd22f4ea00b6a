// Package tui renders the interactive chat session: scrollback, input line,
// sending indicator. All data flows through the chat store, so the view can
// never disagree with the rest of the app about the timeline.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/domain/model"
	"docchat/internal/store"
	"docchat/internal/timefmt"
	"docchat/internal/usecase"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	promptStyle    = lipgloss.NewStyle().Bold(true)
)

type sendResultMsg struct{ err error }

// SessionModel is the bubbletea model for one open chat.
type SessionModel struct {
	chatID string
	title  string
	chat   usecase.ChatUseCase
	st     *store.ChatStore

	input   string
	sending bool
	status  string
	width   int
	done    bool
}

func NewSession(chatID, title string, chat usecase.ChatUseCase, st *store.ChatStore) SessionModel {
	return SessionModel{chatID: chatID, title: title, chat: chat, st: st, width: 80}
}

func (m SessionModel) Init() tea.Cmd { return nil }

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			// keep the typed content so the user can retry
			m.status = msg.err.Error()
		} else {
			m.input = ""
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyBackspace:
			if !m.sending && len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil
		case tea.KeyRunes, tea.KeySpace:
			if !m.sending {
				if msg.Type == tea.KeySpace && len(msg.Runes) == 0 {
					m.input += " "
				} else {
					m.input += string(msg.Runes)
				}
			}
			return m, nil
		}
	}
	return m, nil
}

// submit dispatches the typed content. Blank input never dispatches, and
// the send control stays disabled while a send is outstanding.
func (m SessionModel) submit() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input)
	if content == "" {
		return m, nil
	}
	if m.sending || m.st.SendInFlight(m.chatID) {
		m.status = "still waiting for the previous reply"
		return m, nil
	}
	m.sending = true
	m.status = ""
	chat, chatID := m.chat, m.chatID
	return m, func() tea.Msg {
		return sendResultMsg{err: chat.SendMessage(context.Background(), chatID, content)}
	}
}

func (m SessionModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	now := time.Now()
	for _, msg := range m.st.Messages(m.chatID) {
		b.WriteString(m.renderMessage(msg, now))
	}

	if m.status != "" {
		b.WriteString(errorStyle.Render("! " + m.status))
		b.WriteString("\n")
	}
	if m.sending {
		b.WriteString(pendingStyle.Render("assistant is thinking…"))
		b.WriteString("\n")
	}
	b.WriteString(promptStyle.Render("> "))
	b.WriteString(m.input)
	if m.sending {
		b.WriteString(pendingStyle.Render("  (sending)"))
	}
	b.WriteString("\n")
	b.WriteString(timeStyle.Render("enter to send · esc to leave"))
	b.WriteString("\n")
	return b.String()
}

func (m SessionModel) renderMessage(msg *model.Message, now time.Time) string {
	var b strings.Builder
	label := userStyle.Render("you")
	if msg.Role == model.RoleAssistant {
		label = assistantStyle.Render("assistant")
	}
	b.WriteString(label)
	b.WriteString(" ")
	switch {
	case msg.Pending:
		b.WriteString(pendingStyle.Render("sending…"))
	case msg.Failed:
		b.WriteString(errorStyle.Render("failed to send"))
	default:
		b.WriteString(timeStyle.Render(timefmt.FormatRelative(msg.CreatedAt, now)))
	}
	b.WriteString("\n")
	b.WriteString(wrap(msg.Content, m.width))
	b.WriteString("\n")
	for _, src := range msg.Sources {
		b.WriteString(sourceStyle.Render("  ↳ " + src.DocumentID + " p." + itoa(src.PageNumber)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func wrap(s string, width int) string {
	if width <= 4 {
		return s
	}
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		if line > 0 && line+1+len(word) > width-2 {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}

func itoa(n int) string {
	if n <= 0 {
		return "?"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
