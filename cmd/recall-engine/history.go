// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/recall-engine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "Browse the cards added in past runs",
	Long: `History lists flashcards recorded when they were added to Anki. With a
query argument it runs a full-text search over card fronts and backs;
without one it shows the most recent cards. Use --export to write the
full history to a YAML file.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of cards to show")
	historyCmd.Flags().Bool("export", false, "write the full history to export.yaml")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(stateConfig().HistoryDir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if export, _ := cmd.Flags().GetBool("export"); export {
		path, err := store.ExportYAML(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")

	var entries []history.Entry
	if len(args) > 0 {
		entries, err = store.Search(ctx, strings.Join(args, " "), limit)
	} else {
		entries, err = store.Recent(ctx, limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No cards found.")
		return nil
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Added", "Tag", "Front", "Back"})
	for _, e := range entries {
		tbl.AppendRow(table.Row{
			e.AddedAt.Format("2006-01-02"),
			e.Tag,
			clip(e.Front, 50),
			clip(e.Back, 50),
		})
	}
	tbl.AppendFooter(table.Row{"", "", "Total", len(entries)})
	tbl.Render()
	return nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
