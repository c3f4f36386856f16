package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/calendar"
	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/picker"
)

func (a *App) pickCmd() *cobra.Command {
	var mode, minDate, maxDate, weekStart string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "pick <date>...",
		Short: "Select dates as a date picker would",
		Long: `Apply a sequence of date picks and print the resulting selection.

Modes:
  single    Each pick replaces the selection
  multiple  Each pick toggles a date in or out
  range     Two picks select everything between them

Dates outside --min/--max are reported and ignored.

Examples:
  almanac pick tomorrow
  almanac pick --mode multiple monday wednesday friday
  almanac pick --mode range 2025-01-10 2025-01-20 --max 2025-01-15`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			loc, err := a.config.Location()
			if err != nil {
				return err
			}
			today := dateutil.Today(a.clock.Now(), loc)

			m, err := picker.ParseMode(mode)
			if err != nil {
				return err
			}
			opts := picker.Options{
				Mode: m,
				OnChange: func(selected []time.Time) {
					a.logger.Debug("selection changed", "count", len(selected))
				},
			}
			if opts.Min, err = optionalDate(minDate, today); err != nil {
				return fmt.Errorf("invalid --min: %w", err)
			}
			if opts.Max, err = optionalDate(maxDate, today); err != nil {
				return fmt.Errorf("invalid --max: %w", err)
			}
			p, err := picker.New(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, arg := range args {
				date, err := dateutil.ParseRelativeDate(arg, today)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", arg, err)
				}
				if !p.Select(date) {
					fmt.Fprintf(out, "  %s %s\n", paint(roleMuted, "skipped"), paint(roleMuted, dateutil.DayKey(date)+" (out of bounds)"))
				}
			}

			ws, err := a.weekStart(weekStart)
			if err != nil {
				return err
			}
			printSelection(out, p, today, ws)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(picker.Single), "Selection mode: single, multiple or range")
	cmd.Flags().StringVar(&minDate, "min", "", "Earliest selectable date")
	cmd.Flags().StringVar(&maxDate, "max", "", "Latest selectable date")
	cmd.Flags().StringVar(&weekStart, "week-start", "", "First day of the week (default from config or locale)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// optionalDate parses s relative to today, or returns the zero time for "".
func optionalDate(s string, today time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return dateutil.ParseRelativeDate(s, today)
}

// printSelection lists the selected dates and draws the month grid of each
// month they touch with the selection highlighted.
func printSelection(w io.Writer, p *picker.Picker, today time.Time, weekStart int) {
	keys := p.Keys()
	fmt.Fprintf(w, "\n  %s %s\n", paint(roleHeader, "Selected:"), paint(roleStats, fmt.Sprintf("%d", len(keys))))
	if len(keys) == 0 {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(keys, ", "))

	month := calendar.MonthView
	seen := map[string]bool{}
	for _, d := range p.Selected() {
		label := d.Format("2006-01")
		if seen[label] {
			continue
		}
		seen[label] = true

		days, err := calendar.Build(d, month, calendar.BuildOptions{
			WeekStart: weekStart,
			Now:       today,
			Location:  time.UTC,
		})
		if err != nil {
			continue
		}
		rows, err := calendar.Group(days, dateutil.UnitWeek, weekStart, true)
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "\n  %s\n", paint(roleHeader, d.Format("January 2006")))
		fmt.Fprintf(w, "  %s\n", paint(roleMuted, weekdayHeader(weekStart, 7)))
		for _, row := range rows {
			var b strings.Builder
			for _, day := range row {
				b.WriteString(pickCell(p, day))
			}
			fmt.Fprintf(w, "  %s\n", b.String())
		}
	}
	fmt.Fprintln(w)
}

func pickCell(p *picker.Picker, d *calendar.Day) string {
	text := fmt.Sprintf("%*d", cellWidth-1, d.Date.Day())
	switch {
	case !d.IsInCurrentPeriod:
		return paint(roleMuted, text) + " "
	case p.IsSelected(d.Date):
		return paint(roleToday, text) + paint(roleEvent, "•")
	case p.IsDisabled(d.Date):
		return paint(roleMuted, text) + "x"
	default:
		return text + " "
	}
}
