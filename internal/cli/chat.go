package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docchat/internal/domain/model"
	"docchat/internal/tui"
)

var (
	chatDocs  string
	chatTitle string
)

var chatCmd = &cobra.Command{
	Use:   "chat [chat-id]",
	Short: "Open an interactive chat session",
	Long: `Open an interactive session in the terminal. Pass an existing chat id
to continue a conversation, or --docs to start a new one:

  docchat chat chat-roadmap
  docchat chat --docs doc-handbook --title "Handbook questions"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}

		var session *model.ChatSession
		switch {
		case chatDocs != "":
			ids := strings.Split(chatDocs, ",")
			for i := range ids {
				ids[i] = strings.TrimSpace(ids[i])
			}
			session, err = a.chat.Create(cmd.Context(), ids, chatTitle)
			if err != nil {
				return err
			}
			fmt.Printf("Started chat %s\n", session.ID)
		case len(args) == 1:
			session, err = a.chat.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("pass a chat id or --docs to start a new chat")
		}

		p := tea.NewProgram(tui.NewSession(session.ID, session.Title, a.chat, a.store))
		_, err = p.Run()
		return err
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatDocs, "docs", "", "Comma-separated document ids to start a new chat over")
	chatCmd.Flags().StringVar(&chatTitle, "title", "", "Title for the new chat")
	rootCmd.AddCommand(chatCmd)
}
