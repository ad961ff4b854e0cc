package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/recall-engine/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the conversations discovered under the data directory",
	Long: `Sources scans the data directory the way process does (claude/, google/,
openai/) and lists every conversation that would be analyzed, without
calling Gemini or Anki. Useful for checking an export before a run.`,
	RunE: runSources,
}

func init() {
	sourcesCmd.Flags().String("data-dir", "", "base directory of exported transcripts (default \"data\")")

	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	dataDir := stringSetting(cmd, "data-dir", "sources.data_dir", "data")

	convs, err := sources.All(dataDir, os.Stdout)
	if err != nil {
		return err
	}
	if len(convs) == 0 {
		fmt.Println("\nNo conversations found!")
		return nil
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Source", "Name", "Size"})
	for i, conv := range convs {
		name := conv.Name
		if len(name) > 60 {
			name = name[:57] + "..."
		}
		tbl.AppendRow(table.Row{i + 1, conv.Tag, name, fmt.Sprintf("%d chars", len(conv.Text))})
	}
	tbl.AppendFooter(table.Row{"", "", "Total", len(convs)})
	tbl.Render()
	return nil
}
