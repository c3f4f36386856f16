package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	var path string
	var show bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  almanac config
  almanac config --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if show {
				cfg, err := config.LoadFrom(path)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				printConfig(cmd.OutOrStdout(), cfg, cfg.WeekStart(a.weeks))
				return nil
			}
			return a.runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), path)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Config file (default "+config.DefaultConfigPath()+")")
	cmd.Flags().BoolVar(&show, "show", false, "Print the configuration without editing it")
	return cmd
}

func (a *App) runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg, cfg.WeekStart(a.weeks))

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	cfg.Calendar.WeekStart = promptValue(reader, out, "Week start (empty to follow locale)", cfg.Calendar.WeekStart)
	cfg.Calendar.Locale = promptValue(reader, out, "Locale", cfg.Calendar.Locale)
	cfg.Calendar.Timezone = promptValue(reader, out, "Time zone", cfg.Calendar.Timezone)
	cfg.Calendar.View = promptValue(reader, out, "Default view (month, week, day, 2week...)", cfg.Calendar.View)
	cfg.Calendar.KeepSameDayEvents = promptBool(reader, out, "Keep all events starting on a day", cfg.Calendar.KeepSameDayEvents)
	cfg.Layout.SidePadding = promptFloat(reader, out, "Side padding (%)", cfg.Layout.SidePadding)
	cfg.Layout.InnerPadding = promptFloat(reader, out, "Inner padding (%)", cfg.Layout.InnerPadding)
	cfg.Layout.MaxHeight = promptFloat(reader, out, "Max event height (%)", cfg.Layout.MaxHeight)
	cfg.Events.Path = promptValue(reader, out, "Events file (empty for none)", cfg.Events.Path)
	cfg.Timer.Tick = promptValue(reader, out, "Timer tick", cfg.Timer.Tick)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config, weekStart int) {
	ws := cfg.Calendar.WeekStart
	if ws == "" {
		ws = "(from locale)"
	}
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[calendar]")
	fmt.Fprintf(out, "  week_start           = %s %s\n", ws, paint(roleMuted, fmt.Sprintf("(%d)", weekStart)))
	fmt.Fprintf(out, "  locale               = %s\n", cfg.Calendar.Locale)
	fmt.Fprintf(out, "  timezone             = %s\n", cfg.Calendar.Timezone)
	fmt.Fprintf(out, "  view                 = %s\n", cfg.Calendar.View)
	fmt.Fprintf(out, "  keep_same_day_events = %t\n", cfg.Calendar.KeepSameDayEvents)
	fmt.Fprintln(out, "\n[layout]")
	fmt.Fprintf(out, "  side_padding         = %g\n", cfg.Layout.SidePadding)
	fmt.Fprintf(out, "  inner_padding        = %g\n", cfg.Layout.InnerPadding)
	fmt.Fprintf(out, "  max_height           = %g\n", cfg.Layout.MaxHeight)
	fmt.Fprintln(out, "\n[events]")
	fmt.Fprintf(out, "  path                 = %s\n", cfg.Events.Path)
	fmt.Fprintln(out, "\n[timer]")
	fmt.Fprintf(out, "  tick                 = %s\n", cfg.Timer.Tick)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptBool(reader *bufio.Reader, out io.Writer, label string, current bool) bool {
	for {
		value := promptValue(reader, out, label, strconv.FormatBool(current))
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		fmt.Fprintf(out, "  Invalid value %q. Use true or false\n", value)
		if !hasInput(reader) {
			return current
		}
	}
}

func promptFloat(reader *bufio.Reader, out io.Writer, label string, current float64) float64 {
	for {
		value := promptValue(reader, out, label, strconv.FormatFloat(current, 'g', -1, 64))
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
		if !hasInput(reader) {
			return current
		}
	}
}

// hasInput reports whether more input can be read, so prompts stop
// retrying once stdin is exhausted.
func hasInput(reader *bufio.Reader) bool {
	_, err := reader.Peek(1)
	return err == nil
}
