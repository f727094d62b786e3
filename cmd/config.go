package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit settings",
	Long: `Show and edit ~/.tomato/config.toml. A running timer reloads the file
when it changes; new durations apply from the next session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), app.config.Path())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a setting, for example:

  tomato config set timer.work_duration 30
  tomato config set sound.type chime`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		settings := flatten("", app.config.AllSettings())
		old, ok := settings[key]
		if !ok {
			return fmt.Errorf("unknown setting %q", key)
		}

		value := parseValue(args[1], old)
		if err := app.config.Set(key, value); err != nil {
			// Put the previous value back so the file stays loadable.
			if rerr := app.config.Set(key, old); rerr != nil {
				app.logger.Error("failed to restore setting", "key", key, "error", rerr)
			}
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %v\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}

func showConfig(w io.Writer) error {
	settings := flatten("", app.config.AllSettings())
	if jsonOutput {
		return printJSON(w, settings)
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "# %s\n", app.config.Path())
	for _, k := range keys {
		fmt.Fprintf(w, "%s = %v\n", k, settings[k])
	}
	return nil
}

// flatten turns nested settings into dotted keys.
func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = v
	}
	return out
}

// parseValue converts s to the type of the current value.
func parseValue(s string, current any) any {
	switch current.(type) {
	case int, int64:
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	case bool:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
