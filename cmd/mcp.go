package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/tomato/internal/adapters/mcp"
	"github.com/xvierd/tomato/internal/logging"
	"github.com/xvierd/tomato/internal/timer"
)

var mcpTask string

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server owns a timer and exposes tools to drive it, manage tasks and
presets, and read statistics. It communicates over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := setupSignalHandler()
		defer cancel()
		ctx = logging.WithCommand(ctx, "mcp")

		live, err := startTimer(ctx, timer.NewTickerClock(time.Second), mcpTask)
		if err != nil {
			return err
		}
		defer live.stop()

		// stdout carries the protocol.
		fmt.Fprintln(cmd.ErrOrStderr(), "🍅 MCP server listening on stdio (Ctrl+C to stop)")

		server := mcp.NewServer(live.timer, app.state, logging.WithFields(app.logger, "component", "mcp"))
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().StringVarP(&mcpTask, "task", "t", "", "Task to select, by id or fuzzy title")
}
