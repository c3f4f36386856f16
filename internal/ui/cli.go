package ui

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/clock"
	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/weekinfo"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	clock  clock.Clock
	weeks  weekinfo.Lookup
	root   *cobra.Command
	debug  bool // Enable debug logging

	logger  *slog.Logger
	logFile io.Closer
}

// NewApp creates a new CLI application with the given config. A nil clock
// means the system clock.
func NewApp(cfg *config.Config, clk clock.Clock) *App {
	if clk == nil {
		clk = clock.System{}
	}
	a := &App{
		config: cfg,
		clock:  clk,
		weeks:  weekinfo.DefaultTable(),
		logger: discardLogger(),
	}

	a.root = &cobra.Command{
		Use:   "almanac",
		Short: "A calendar view and event layout tool",
		Long: `Almanac computes calendar views from an events file.

It lays out month, week and day grids for any week start and time zone,
splits events that cross midnight, and computes where each timed event
sits on a day timeline.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !isTerminal() {
				DisableColor()
			}
			return a.setupLogging()
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+DebugLogPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.viewCmd())
	a.root.AddCommand(a.layoutCmd())
	a.root.AddCommand(a.pickCmd())
	a.root.AddCommand(a.timerCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "almanac %s (commit: %s)\n", Version, Commit)
		},
	}
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// SetInput redirects command input, for tests.
func (a *App) SetInput(r io.Reader) {
	a.root.SetIn(r)
}

// SetArgs sets the command-line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the debug log file, if any.
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	a.logger.Debug("debug log closed")
	err := a.logFile.Close()
	a.logFile = nil
	a.logger = discardLogger()
	return err
}
