package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/calendar"
	"github.com/javiermolinar/almanac/internal/event"
)

func (a *App) layoutCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "layout [event-id]",
		Short: "Show where events sit on a day timeline",
		Long: `Compute the timeline geometry of events in a week or day view.

Top, left, width and height are percentages of a day column. Overlapping
events share the column in the order they appear in the events file.
Without an id, every event in the file is listed. Events outside the
viewed period are reported as not placed.

Examples:
  almanac layout standup --mode week --events work.yaml
  almanac layout --mode day --date 2025-01-15 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				DisableColor()
			}
			state, err := a.viewState(opts)
			if err != nil {
				return err
			}
			if !state.Period.ViewMode.IsTimeline() {
				return fmt.Errorf("%s views have no timeline; use a week or day mode", state.Period.ViewMode)
			}

			path := a.eventsPath(opts.events)
			if path == "" {
				return errors.New("no events file: pass --events or set events.path in the config")
			}
			events, err := a.loader(state.Location).Load(path)
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(events))
			for _, ev := range events {
				ids = append(ids, ev.ID)
			}
			if len(args) == 1 {
				if !slices.Contains(ids, args[0]) {
					return fmt.Errorf("event %q not found in %s", args[0], path)
				}
				ids = args
			}

			start, end, err := calendar.Range(state.Period.CurrentPeriod, state.Period.ViewMode, state.WeekStart)
			if err != nil {
				return err
			}
			visible := inWindow(events, start, end, state.Location)
			a.logger.Debug("layout window", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"), "visible", len(visible))

			ix := event.NewIndex(visible, state.Location, state.Policy)
			results := layouts(ix, ids, state.Period.ViewMode, a.config.LayoutOptions())
			a.logger.Debug("layouts computed", "count", len(results), "mode", state.Period.ViewMode.String())

			if opts.asJSON {
				return writeLayoutsJSON(cmd.OutOrStdout(), results)
			}
			printLayouts(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date of the view (default: today)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "week", "Timeline mode: week, day, 2week, 3day...")
	cmd.Flags().StringVarP(&opts.events, "events", "e", "", "Events file (default from config)")
	cmd.Flags().StringVar(&opts.timezone, "tz", "", "IANA time zone (default from config)")
	cmd.Flags().BoolVar(&opts.keepSameDay, "keep-same-day", false, "Keep every event that starts on a day, not only the first")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print layouts as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable color output")
	return cmd
}

// inWindow keeps the events that touch the civil days start..end in loc.
func inWindow(events []event.Event, start, end time.Time, loc *time.Location) []event.Event {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, loc)
	visible := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if !ev.Start.Before(to) {
			continue
		}
		if ev.End.After(from) || ev.Start.Equal(from) {
			visible = append(visible, ev)
		}
	}
	return visible
}

type eventLayout struct {
	Ref    event.Ref
	Day    string
	Layout calendar.Layout
	Placed bool
}

// layouts computes the layout of each id. Ids missing from the index, such
// as same-day events dropped by FirstPerDay or events outside the view, are
// reported as unplaced.
func layouts(ix *event.Index, ids []string, mode calendar.ViewMode, opts calendar.LayoutOptions) []eventLayout {
	results := make([]eventLayout, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		ref, found := ix.Find(id)
		if !found {
			results = append(results, eventLayout{Ref: event.Ref{Event: event.Event{ID: id}}})
			continue
		}
		l, ok := calendar.EventLayout(id, ix, mode, opts)
		results = append(results, eventLayout{
			Ref:    ref,
			Day:    ref.Start.In(ix.Location()).Format("2006-01-02"),
			Layout: l,
			Placed: ok,
		})
	}
	return results
}

func printLayouts(w io.Writer, results []eventLayout) {
	fmt.Fprintf(w, "\n  %s\n", paint(roleHeader, fmt.Sprintf("%-16s %-24s %7s %7s %7s %7s  %s",
		"ID", "TITLE", "TOP", "LEFT", "WIDTH", "HEIGHT", "COLUMN")))
	for _, r := range results {
		if !r.Placed {
			fmt.Fprintf(w, "  %-16s %s\n", truncate(r.Ref.ID, 16), paint(roleMuted, "not shown (hidden by an earlier event that day)"))
			continue
		}
		l := r.Layout
		fmt.Fprintf(w, "  %-16s %-24s %s %s %s %s  %d/%d\n",
			truncate(r.Ref.ID, 16), truncate(r.Ref.Title, 24),
			paint(roleStats, fmt.Sprintf("%6.2f%%", l.Top)),
			paint(roleStats, fmt.Sprintf("%6.2f%%", l.Left)),
			paint(roleStats, fmt.Sprintf("%6.2f%%", l.Width)),
			paint(roleStats, fmt.Sprintf("%6.2f%%", l.Height)),
			l.Column+1, l.Columns)
	}
	fmt.Fprintln(w)
}

type eventLayoutJSON struct {
	ID     string      `json:"id"`
	Title  string      `json:"title,omitempty"`
	Day    string      `json:"day,omitempty"`
	Layout *layoutJSON `json:"layout"`
}

func writeLayoutsJSON(w io.Writer, results []eventLayout) error {
	out := make([]eventLayoutJSON, 0, len(results))
	for _, r := range results {
		item := eventLayoutJSON{ID: r.Ref.ID, Title: r.Ref.Title}
		if r.Placed {
			item.Day = r.Day
			item.Layout = newLayoutJSON(r.Layout)
		}
		out = append(out, item)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
