package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/tomato/internal/adapters/export"
)

var (
	historyFormat string
	historyDays   int
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"export"},
	Short:   "Export session history",
	Long:    `Export recorded sessions as csv, yaml or a markdown table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "md", "Output format: csv, yaml or md")
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 7, "Number of days to include, counting today")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runHistory(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := export.ParseFormat(historyFormat)
	if err != nil {
		return err
	}

	records, err := app.sessions.RecentSessions(ctx, historyDays)
	if err != nil {
		return fmt.Errorf("failed to fetch sessions: %w", err)
	}

	titles := make(map[string]string)
	for _, r := range records {
		if r.TaskID == nil {
			continue
		}
		if _, ok := titles[*r.TaskID]; ok {
			continue
		}
		if title := app.tasks.TaskTitle(ctx, *r.TaskID); title != "" {
			titles[*r.TaskID] = title
		}
	}
	rows := export.Rows(records, titles)

	if historyOutput != "" {
		f, err := os.Create(historyOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", historyOutput, err)
		}
		defer func() { _ = f.Close() }()
		if err := export.Write(f, format, rows); err != nil {
			return err
		}
		fmt.Fprintf(w, "✅ Exported %d sessions to %s\n", len(rows), historyOutput)
		return nil
	}

	if format == export.FormatMarkdown && isTerminal(w) {
		return renderMarkdown(w, export.Markdown(rows))
	}
	return export.Write(w, format, rows)
}
