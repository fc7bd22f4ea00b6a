package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	chatsSearch string
	chatsLimit  int
	chatsAll    bool
	deleteYes   bool
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Browse and manage past chat sessions",
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats, grouped into Recent (last 7 days) and Older",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if chatsSearch != "" {
			if err := a.state.RememberSearch(chatsSearch); err != nil {
				a.log.Warn().Err(err).Msg("could not remember search term")
			}
		}
		if err := a.hist.Load(cmd.Context(), chatsLimit, chatsSearch); err != nil {
			return err
		}
		for chatsAll {
			before := len(a.store.Snapshot())
			if before >= a.store.Total() {
				break
			}
			if err := a.hist.LoadMore(cmd.Context()); err != nil {
				return err
			}
			if len(a.store.Snapshot()) == before {
				break
			}
		}
		recent, older := a.hist.Partition(time.Now())
		fmt.Print(renderChatSections(recent, older, time.Now()))
		if !chatsAll {
			if have, total := len(a.store.Snapshot()), a.store.Total(); have < total {
				fmt.Println(dimStyle.Render(fmt.Sprintf("showing %d of %d, use --all for the rest", have, total)))
			}
		}
		return nil
	},
}

var chatsRenameCmd = &cobra.Command{
	Use:   "rename <chat-id> <new-title>",
	Short: "Rename a chat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		updated, err := a.hist.Rename(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed to %q\n", updated.Title)
		return nil
	},
}

var chatsDeleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a chat and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		id := args[0]
		if !deleteYes {
			label := id
			if c := a.store.Get(id); c != nil {
				label = fmt.Sprintf("%q", c.Title)
			}
			answer, err := promptLine(fmt.Sprintf("Delete chat %s? This cannot be undone. [y/N] ", label))
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := a.hist.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var chatsSearchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "Show recently used search terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		terms, err := a.state.RecentSearches(10)
		if err != nil {
			return err
		}
		if len(terms) == 0 {
			fmt.Println(dimStyle.Render("No recent searches."))
			return nil
		}
		for _, t := range terms {
			fmt.Println("  " + t)
		}
		return nil
	},
}

func init() {
	chatsListCmd.Flags().StringVar(&chatsSearch, "search", "", "Filter chats by title substring")
	chatsListCmd.Flags().IntVar(&chatsLimit, "limit", 20, "Page size")
	chatsListCmd.Flags().BoolVar(&chatsAll, "all", false, "Fetch every page, not just the first")
	chatsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")

	chatsCmd.AddCommand(chatsListCmd, chatsRenameCmd, chatsDeleteCmd, chatsSearchesCmd)
	rootCmd.AddCommand(chatsCmd)
}
