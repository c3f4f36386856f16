package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/calendar"
	"github.com/javiermolinar/almanac/internal/clock"
	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/source"
)

// viewRefresh is how often a watched view refreshes its current-time marker.
var viewRefresh = time.Minute

// groupNone lists days without arranging them in rows.
const groupNone = "none"

type viewOptions struct {
	date         string
	mode         string
	shift        int
	events       string
	timezone     string
	weekStart    string
	group        string
	keepSameDay  bool
	noFill       bool
	trim         bool
	asJSON       bool
	noColor      bool
	watch        bool
	layoutGutter bool
}

func (a *App) viewCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show a calendar view",
		Long: `Show a month, week or day view with its events.

The view is anchored at --date (default today) and can be moved by whole
views with --shift. Events come from --events or the configured events
file (.ics, .yaml or .json). Multi-day events are split per day.

Date formats:
  today, tomorrow, yesterday
  monday..sunday        Next occurrence
  next-friday           Next occurrence
  last-monday           Previous occurrence
  next-week, last-week  Seven days ahead or back
  2025-01-15            Specific date (YYYY-MM-DD)

Examples:
  almanac view
  almanac view --mode week --date next-monday
  almanac view --mode 3day --events ~/work.ics
  almanac view --mode 2month --group month --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.noColor {
				DisableColor()
			}

			state, err := a.viewState(opts)
			if err != nil {
				return err
			}
			path := a.eventsPath(opts.events)
			if path != "" {
				events, err := a.loader(state.Location).Load(path)
				if err != nil {
					return err
				}
				state.Events = events
			}

			out := cmd.OutOrStdout()
			if !opts.watch {
				return a.renderView(out, state, opts)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watchView(ctx, out, state, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date to show (default: today)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "View mode: month, week, day, 2week, 3day... (default from config)")
	cmd.Flags().IntVar(&opts.shift, "shift", 0, "Move the view forward (or back, if negative) by whole views")
	cmd.Flags().StringVarP(&opts.events, "events", "e", "", "Events file (default from config)")
	cmd.Flags().StringVar(&opts.timezone, "tz", "", "IANA time zone (default from config)")
	cmd.Flags().StringVar(&opts.weekStart, "week-start", "", "First day of the week (default from config or locale)")
	cmd.Flags().StringVarP(&opts.group, "group", "g", "", "Row grouping: week, workWeek, month or none")
	cmd.Flags().BoolVar(&opts.keepSameDay, "keep-same-day", false, "Keep every event that starts on a day, not only the first")
	cmd.Flags().BoolVar(&opts.noFill, "no-fill", false, "Leave partial rows open instead of filling them with adjacent days")
	cmd.Flags().BoolVar(&opts.trim, "trim", false, "Drop days outside the month in month views")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the view as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable color output")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Keep running and redraw when the events file changes")
	cmd.Flags().BoolVar(&opts.layoutGutter, "columns", false, "Show overlap columns for timeline views")
	return cmd
}

// viewState resolves flags and config into the state a view is built from.
func (a *App) viewState(opts viewOptions) (calendar.State, error) {
	loc, err := a.location(opts.timezone)
	if err != nil {
		return calendar.State{}, err
	}

	mode, err := a.viewMode(opts.mode)
	if err != nil {
		return calendar.State{}, err
	}

	ws, err := a.weekStart(opts.weekStart)
	if err != nil {
		return calendar.State{}, err
	}

	now := a.clock.Now()
	anchor, err := dateutil.ParseRelativeDate(opts.date, dateutil.Today(now, loc))
	if err != nil {
		return calendar.State{}, fmt.Errorf("invalid date: %w", err)
	}

	period := calendar.Specific(anchor)(calendar.NewPeriodState(mode, now, loc))
	period = calendar.Shift(period, opts.shift)

	policy := a.config.Policy()
	if opts.keepSameDay {
		policy = event.AllPerDay
	}

	a.logger.Debug("view state",
		"period", dateutil.DayKey(period.CurrentPeriod),
		"mode", mode.String(),
		"week_start", ws,
		"timezone", loc.String())

	return calendar.State{
		Period:    period,
		WeekStart: ws,
		Location:  loc,
		Policy:    policy,
	}, nil
}

func (a *App) location(name string) (*time.Location, error) {
	if name == "" {
		return a.config.Location()
	}
	if name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}

func (a *App) viewMode(s string) (calendar.ViewMode, error) {
	if s == "" {
		return a.config.ViewMode()
	}
	return calendar.ParseViewMode(s)
}

func (a *App) weekStart(s string) (int, error) {
	if s == "" {
		return a.config.WeekStart(a.weeks), nil
	}
	return dateutil.ParseWeekday(s)
}

func (a *App) eventsPath(flag string) string {
	if flag != "" {
		return flag
	}
	return a.config.Events.Path
}

func (a *App) loader(loc *time.Location) source.Loader {
	return source.Loader{Location: loc, Logger: a.logger}
}

// groupUnit resolves --group for mode. An empty name picks week rows for
// month and week views and a plain list for day views.
func groupUnit(name string, mode calendar.ViewMode) (string, error) {
	switch name {
	case "":
		if mode.Unit == dateutil.UnitDay {
			return groupNone, nil
		}
		return string(dateutil.UnitWeek), nil
	case groupNone, string(dateutil.UnitWeek), string(dateutil.UnitWorkWeek), string(dateutil.UnitMonth):
		return name, nil
	default:
		return "", fmt.Errorf("invalid group %q (use week, workWeek, month or none)", name)
	}
}

// viewRows builds the view and arranges its days in rows.
func viewRows(state calendar.State, opts viewOptions) (calendar.View, [][]*calendar.Day, string, error) {
	view, err := state.Build(opts.trim)
	if err != nil {
		return calendar.View{}, nil, "", err
	}
	unit, err := groupUnit(opts.group, state.Period.ViewMode)
	if err != nil {
		return calendar.View{}, nil, "", err
	}
	if unit == groupNone {
		return view, [][]*calendar.Day{view.Days}, unit, nil
	}
	rows, err := calendar.Group(view.Days, dateutil.Unit(unit), state.WeekStart, !opts.noFill)
	if err != nil {
		return calendar.View{}, nil, "", err
	}
	return view, rows, unit, nil
}

func (a *App) renderView(w io.Writer, state calendar.State, opts viewOptions) error {
	view, rows, unit, err := viewRows(state, opts)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeViewJSON(w, state, view, rows, a.config.LayoutOptions())
	}
	printView(w, state, view, rows, unit, opts.layoutGutter, a.config.LayoutOptions())
	return nil
}

// watchView redraws the view whenever the events file changes and refreshes
// the current time periodically, until ctx is cancelled.
func (a *App) watchView(ctx context.Context, w io.Writer, state calendar.State, path string, opts viewOptions) error {
	store := calendar.NewStore(state)

	var mu sync.Mutex
	redraw := func(s calendar.State) {
		mu.Lock()
		defer mu.Unlock()
		if isTerminal() {
			fmt.Fprint(w, "\033[H\033[2J")
		}
		if err := a.renderView(w, s, opts); err != nil {
			a.logger.Error("rendering view", "error", err)
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
	unsubscribe := store.Subscribe(redraw)
	defer unsubscribe()
	redraw(store.State())

	refresh := clock.NewRepeater(viewRefresh, func(time.Time) {
		store.SetCurrentTime(a.clock.Now())
	})
	refresh.Start()
	defer refresh.Stop()

	if path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := source.NewWatcher(path, source.WatchOptions{
		Loader: a.loader(state.Location),
		OnLoad: store.SetEvents,
		Logger: a.logger,
	})
	if err != nil {
		return err
	}
	a.logger.Info("watching events file", "path", watcher.Path())
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printView(w io.Writer, state calendar.State, view calendar.View, rows [][]*calendar.Day, unit string, columns bool, lopts calendar.LayoutOptions) {
	mode := state.Period.ViewMode
	start, end, _ := calendar.Range(state.Period.CurrentPeriod, mode, state.WeekStart)
	title := periodTitle(mode, start, end, state.Period.CurrentPeriod)

	fmt.Fprintf(w, "\n  %s\n", paint(roleHeader, title))
	fmt.Fprintln(w, strings.Repeat("─", 7*cellWidth+4))

	switch unit {
	case string(dateutil.UnitWeek):
		fmt.Fprintf(w, "  %s\n", paint(roleMuted, weekdayHeader(state.WeekStart, 7)))
		printRows(w, rows, "")
	case string(dateutil.UnitWorkWeek):
		fmt.Fprintf(w, "  %s\n", paint(roleMuted, weekdayHeader(1, 5)))
		printRows(w, rows, "")
	case string(dateutil.UnitMonth):
		printRows(w, rows, "month")
	}

	printEvents(w, state, view, columns, lopts)
	fmt.Fprintln(w)
}

func printRows(w io.Writer, rows [][]*calendar.Day, label string) {
	for _, row := range rows {
		var b strings.Builder
		if label == "month" {
			for _, d := range row {
				if d != nil {
					b.WriteString(paint(roleMuted, d.Date.Format("Jan")))
					break
				}
			}
		}
		for _, d := range row {
			b.WriteString(dayCell(d))
		}
		fmt.Fprintf(w, "  %s\n", b.String())
	}
}

func printEvents(w io.Writer, state calendar.State, view calendar.View, columns bool, lopts calendar.LayoutOptions) {
	loc := state.Location
	mode := state.Period.ViewMode
	titleWidth := max(termWidth()-30, 20)

	printed := false
	for _, d := range view.Days {
		if len(d.Events) == 0 && !d.IsToday {
			continue
		}
		if d.Filler {
			continue
		}
		if !printed {
			fmt.Fprintln(w)
			printed = true
		}

		header := d.Date.Format("Mon Jan 2")
		if d.IsToday {
			now := state.Period.CurrentTime.In(loc)
			pct := clock.DayPercent(now)
			header = paint(roleToday, header) + "  " + paint(roleMuted, fmt.Sprintf("%s %s %s",
				now.Format("15:04"), ProgressBar(pct, 12), paint(roleStats, fmt.Sprintf("%.0f%%", pct))))
		} else {
			header = paint(roleHeader, header)
		}
		fmt.Fprintf(w, "  %s\n", header)

		for _, ref := range d.Events {
			line := fmt.Sprintf("    %s  %s", paint(roleEvent, eventSpan(ref, loc)), truncate(ref.Title, titleWidth))
			if ref.IsFragment() {
				line += "  " + paint(roleMuted, fmt.Sprintf("(%d/%d)", ref.Part, ref.Parts))
			}
			if len(ref.Resources) > 0 {
				line += "  " + paint(roleMuted, "@"+strings.Join(ref.Resources, ", "))
			}
			if columns {
				if l, ok := calendar.EventLayout(ref.ID, view.Index, mode, lopts); ok && l.Columns > 1 {
					line += "  " + paint(roleStats, fmt.Sprintf("[col %d/%d]", l.Column+1, l.Columns))
				}
			}
			fmt.Fprintln(w, line)
		}
	}
}

// JSON output

type viewJSON struct {
	Mode      string       `json:"mode"`
	Period    string       `json:"period"`
	Start     string       `json:"start"`
	End       string       `json:"end"`
	WeekStart int          `json:"week_start"`
	Timezone  string       `json:"timezone"`
	Now       time.Time    `json:"now"`
	Rows      [][]*dayJSON `json:"rows"`
}

type dayJSON struct {
	Date              string      `json:"date"`
	IsToday           bool        `json:"is_today"`
	IsInCurrentPeriod bool        `json:"is_in_current_period"`
	Filler            bool        `json:"filler,omitempty"`
	Events            []eventJSON `json:"events"`
}

type eventJSON struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Start     time.Time   `json:"start"`
	End       time.Time   `json:"end"`
	Resources []string    `json:"resources,omitempty"`
	Part      int         `json:"part,omitempty"`
	Parts     int         `json:"parts,omitempty"`
	Layout    *layoutJSON `json:"layout,omitempty"`
}

type layoutJSON struct {
	Top     float64 `json:"top"`
	Left    float64 `json:"left"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Column  int     `json:"column"`
	Columns int     `json:"columns"`
}

func newLayoutJSON(l calendar.Layout) *layoutJSON {
	return &layoutJSON{
		Top:     l.Top,
		Left:    l.Left,
		Width:   l.Width,
		Height:  l.Height,
		Column:  l.Column,
		Columns: l.Columns,
	}
}

func writeViewJSON(w io.Writer, state calendar.State, view calendar.View, rows [][]*calendar.Day, lopts calendar.LayoutOptions) error {
	mode := state.Period.ViewMode
	start, end, err := calendar.Range(state.Period.CurrentPeriod, mode, state.WeekStart)
	if err != nil {
		return err
	}

	out := viewJSON{
		Mode:      mode.String(),
		Period:    dateutil.DayKey(state.Period.CurrentPeriod),
		Start:     dateutil.DayKey(start),
		End:       dateutil.DayKey(end),
		WeekStart: state.WeekStart,
		Timezone:  state.Location.String(),
		Now:       state.Period.CurrentTime.In(state.Location),
		Rows:      make([][]*dayJSON, 0, len(rows)),
	}
	for _, row := range rows {
		jr := make([]*dayJSON, len(row))
		for i, d := range row {
			if d == nil {
				continue // placeholder, encoded as null
			}
			jd := &dayJSON{
				Date:              d.Key(),
				IsToday:           d.IsToday,
				IsInCurrentPeriod: d.IsInCurrentPeriod,
				Filler:            d.Filler,
				Events:            make([]eventJSON, 0, len(d.Events)),
			}
			for _, ref := range d.Events {
				je := eventJSON{
					ID:        ref.ID,
					Title:     ref.Title,
					Start:     ref.Start.In(state.Location),
					End:       ref.End.In(state.Location),
					Resources: ref.Resources,
				}
				if ref.IsFragment() {
					je.Part, je.Parts = ref.Part, ref.Parts
				}
				if ref.IsFirstPart() {
					if l, ok := calendar.EventLayout(ref.ID, view.Index, mode, lopts); ok {
						je.Layout = newLayoutJSON(l)
					}
				}
				jd.Events = append(jd.Events, je)
			}
			jr[i] = jd
		}
		out.Rows = append(out.Rows, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
