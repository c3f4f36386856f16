package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/timer"
)

func (a *App) timerCmd() *cobra.Command {
	var tick time.Duration
	var noColor bool

	cmd := &cobra.Command{
		Use:   "timer <duration>",
		Short: "Run a countdown timer",
		Long: `Count down the given duration, redrawing every tick.

Interrupt with Ctrl-C to pause; the remaining time is printed.

Examples:
  almanac timer 25m
  almanac timer 90s --tick 250ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			d, err := time.ParseDuration(args[0])
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[0], err)
			}
			if tick <= 0 {
				if tick, err = a.config.TickInterval(); err != nil {
					return err
				}
			}

			t, err := timer.New(d, timer.Options{Clock: a.clock, Logger: a.logger})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTimer(ctx, cmd.OutOrStdout(), t, tick)
		},
	}

	cmd.Flags().DurationVar(&tick, "tick", 0, "Redraw interval (default from config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func runTimer(ctx context.Context, w io.Writer, t *timer.Timer, tick time.Duration) error {
	fmt.Fprintf(w, "  %s %s\n", paint(roleHeader, "Timer"), paint(roleMuted, FormatDuration(t.Duration())))

	err := t.Run(ctx, tick, func(s timer.Snapshot) {
		pct := float64(s.Elapsed) / float64(t.Duration()) * 100
		fmt.Fprintf(w, "\r  %s %s %s", paint(roleStats, FormatClock(s.Remaining)), ProgressBar(pct, 20), paint(roleMuted, string(s.State)))
	})
	fmt.Fprintln(w)

	switch {
	case err == nil:
		fmt.Fprintf(w, "  %s\n", paint(roleToday, "Done!"))
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(w, "  %s at %s remaining\n", paint(roleMuted, "Paused"), FormatClock(t.Remaining()))
		return nil
	default:
		return err
	}
}
