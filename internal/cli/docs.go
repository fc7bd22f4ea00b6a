package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docchat/internal/domain/ports/repository"
)

var (
	docsSearch string
	docsSort   string
	docsOrder  string
	docsLimit  int

	uploadWait bool
	docsRmYes  bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage uploaded documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		docs, err := a.doc.List(cmd.Context(), repository.DocumentQuery{
			Search:    docsSearch,
			SortBy:    docsSort,
			SortOrder: docsOrder,
			Limit:     docsLimit,
		})
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println(dimStyle.Render("No documents. Upload one with `docchat docs upload <path>`."))
			return nil
		}
		for _, d := range docs {
			fmt.Print(renderDocumentLine(d))
		}
		return nil
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a document (pdf, txt, md, docx; 50 MB max)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		doc, err := a.doc.Upload(cmd.Context(), filepath.Base(args[0]), f, info.Size())
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s as %s (%s)\n", doc.Name, doc.ID, doc.Status)

		if uploadWait && !doc.Status.Ready() {
			fmt.Println(dimStyle.Render("waiting for processing…"))
			doc, err = a.doc.WaitProcessed(cmd.Context(), doc.ID, time.Second)
			if err != nil {
				return err
			}
			fmt.Printf("%s is ready (%d pages)\n", doc.Name, doc.PageCount)
		}
		return nil
	},
}

var docsRmCmd = &cobra.Command{
	Use:   "rm <document-id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp(cmd)
		if err != nil {
			return err
		}
		if !docsRmYes {
			answer, err := promptLine(fmt.Sprintf("Delete document %s? [y/N] ", args[0]))
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := a.doc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	docsListCmd.Flags().StringVar(&docsSearch, "search", "", "Filter by file name substring")
	docsListCmd.Flags().StringVar(&docsSort, "sort", "date", "Sort key: date|name|size")
	docsListCmd.Flags().StringVar(&docsOrder, "order", "desc", "Sort order: asc|desc")
	docsListCmd.Flags().IntVar(&docsLimit, "limit", 0, "Maximum results (0 = no limit)")
	docsUploadCmd.Flags().BoolVar(&uploadWait, "wait", false, "Block until the backend finishes processing")
	docsRmCmd.Flags().BoolVarP(&docsRmYes, "yes", "y", false, "Skip the confirmation prompt")

	docsCmd.AddCommand(docsListCmd, docsUploadCmd, docsRmCmd)
	rootCmd.AddCommand(docsCmd)
}
