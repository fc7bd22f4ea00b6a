package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"docchat/internal/domain/model"
	"docchat/internal/timefmt"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	chatTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// renderChatSections prints the Recent / Older groups the way the history
// panel lays them out. Empty groups are skipped entirely.
func renderChatSections(recent, older []*model.ChatSession, now time.Time) string {
	var b strings.Builder
	writeGroup := func(label string, group []*model.ChatSession) {
		if len(group) == 0 {
			return
		}
		b.WriteString(headerStyle.Render(label))
		b.WriteString("\n")
		for _, c := range group {
			b.WriteString(renderChatLine(c, now))
		}
		b.WriteString("\n")
	}
	writeGroup("Recent", recent)
	writeGroup("Older", older)
	if len(recent) == 0 && len(older) == 0 {
		b.WriteString(dimStyle.Render("No chats yet. Start one with `docchat chat --docs <id>`."))
		b.WriteString("\n")
	}
	return b.String()
}

func renderChatLine(c *model.ChatSession, now time.Time) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(chatTitleStyle.Render(c.Title))
	b.WriteString("  ")
	b.WriteString(idStyle.Render(c.ID))
	b.WriteString("\n    ")
	b.WriteString(countStyle.Render(fmt.Sprintf("%d msg", c.MessageCount)))
	b.WriteString("  ")
	b.WriteString(dateStyle.Render(timefmt.FormatRelative(c.UpdatedAt, now)))
	if c.LastMessage != "" {
		b.WriteString("  ")
		b.WriteString(previewStyle.Render(truncate(c.LastMessage, 60)))
	}
	b.WriteString("\n")
	return b.String()
}

func renderDocumentLine(d *model.Document) string {
	status := string(d.Status)
	switch {
	case d.Status.Ready():
		status = countStyle.Render("ready")
	case d.Status == model.DocumentFailed:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Render("failed")
	default:
		status = dimStyle.Render(status)
	}
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		chatTitleStyle.Render(d.Name),
		idStyle.Render(d.ID),
		dateStyle.Render(formatSize(d.Size)),
		status)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
