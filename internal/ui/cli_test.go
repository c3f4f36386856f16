package ui

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/almanac/internal/clock"
	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/event"
)

// fixedNow is Wednesday 2024-06-12 10:00 UTC.
var fixedNow = time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)

const eventsYAML = `events:
  - id: standup
    title: Standup
    start: "2024-06-03T09:00"
    end: "2024-06-03T10:00"
  - id: review
    title: Review
    start: "2024-06-03T09:30"
    end: "2024-06-03T10:30"
    resources: [room-a]
  - id: deploy
    title: Night deploy
    start: "2024-06-10T22:00"
    end: "2024-06-11T02:00"
`

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Calendar.Timezone = "UTC"
	cfg.Calendar.WeekStart = "monday"
	return cfg
}

// runApp executes args against a fresh App and returns its output.
func runApp(t *testing.T, cfg *config.Config, clk clock.Clock, args ...string) (string, error) {
	t.Helper()
	DisableColor()
	if clk == nil {
		clk = clock.Func(func() time.Time { return fixedNow })
	}
	app := NewApp(cfg, clk)
	t.Cleanup(func() { _ = app.Close() })

	var out bytes.Buffer
	app.SetOutput(&out)
	app.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func writeEvents(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.yaml")
	if err := os.WriteFile(path, []byte(eventsYAML), 0o644); err != nil {
		t.Fatalf("failed to write events: %v", err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := runApp(t, testConfig(), nil, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "almanac dev") {
		t.Errorf("expected version output, got %q", out)
	}
}

func TestView_MonthJSON(t *testing.T) {
	path := writeEvents(t)
	out, err := runApp(t, testConfig(), nil, "view", "--json", "--events", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v viewJSON
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if v.Mode != "month" {
		t.Errorf("expected mode month, got %s", v.Mode)
	}
	if v.Start != "2024-05-27" || v.End != "2024-06-30" {
		t.Errorf("expected range 2024-05-27..2024-06-30, got %s..%s", v.Start, v.End)
	}
	if len(v.Rows) != 5 {
		t.Fatalf("expected 5 week rows, got %d", len(v.Rows))
	}

	days := map[string]*dayJSON{}
	for _, row := range v.Rows {
		if len(row) != 7 {
			t.Fatalf("expected rows of 7 days, got %d", len(row))
		}
		for _, d := range row {
			days[d.Date] = d
		}
	}

	if days["2024-05-27"].IsInCurrentPeriod {
		t.Error("expected May 27 outside the period")
	}
	if !days["2024-06-12"].IsToday {
		t.Error("expected June 12 to be today")
	}

	// FirstPerDay keeps only the first event starting on June 3
	if got := days["2024-06-03"].Events; len(got) != 1 || got[0].ID != "standup" {
		t.Errorf("expected only standup on June 3, got %+v", got)
	}

	first, second := days["2024-06-10"].Events, days["2024-06-11"].Events
	if len(first) != 1 || first[0].Part != 1 || first[0].Parts != 2 {
		t.Errorf("expected deploy part 1/2 on June 10, got %+v", first)
	}
	if len(second) != 1 || second[0].Part != 2 || !second[0].Start.Equal(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected deploy part 2/2 from midnight on June 11, got %+v", second)
	}
	if first[0].Layout != nil {
		t.Error("expected no layout in a month view")
	}
}

func TestView_DayWithoutFill(t *testing.T) {
	out, err := runApp(t, testConfig(), nil, "view", "--json", "--mode", "day", "--group", "week", "--no-fill")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v viewJSON
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(v.Rows) != 1 || len(v.Rows[0]) != 7 {
		t.Fatalf("expected one row of 7, got %v", v.Rows)
	}
	for i, d := range v.Rows[0] {
		if i == 2 {
			if d == nil || d.Date != "2024-06-12" {
				t.Errorf("expected June 12 on Wednesday, got %+v", d)
			}
			continue
		}
		if d != nil {
			t.Errorf("expected placeholder at %d, got %+v", i, d)
		}
	}
}

func TestView_ShiftAndWeekStart(t *testing.T) {
	out, err := runApp(t, testConfig(), nil,
		"view", "--json", "--mode", "week", "--week-start", "sunday", "--shift", "-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v viewJSON
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v.Start != "2024-06-02" || v.End != "2024-06-08" {
		t.Errorf("expected previous Sunday week, got %s..%s", v.Start, v.End)
	}
	if v.WeekStart != 7 {
		t.Errorf("expected week start 7, got %d", v.WeekStart)
	}
}

func TestView_Text(t *testing.T) {
	path := writeEvents(t)
	out, err := runApp(t, testConfig(), nil,
		"view", "--mode", "week", "--date", "2024-06-03", "--events", path, "--keep-same-day", "--columns")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Mon Jun 3 - Sun Jun 9, 2024",
		"  Mo  Tu  We  Th  Fr  Sa  Su",
		"09:00-10:00  Standup",
		"09:30-10:30  Review",
		"@room-a",
		"[col 2/2]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestView_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad group", []string{"view", "--group", "year"}},
		{"bad mode", []string{"view", "--mode", "fortnight"}},
		{"bad date", []string{"view", "--date", "someday"}},
		{"bad zone", []string{"view", "--tz", "Mars/Base"}},
		{"missing events", []string{"view", "--events", "/nonexistent/events.yaml"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := runApp(t, testConfig(), nil, tc.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLayout_JSON(t *testing.T) {
	path := writeEvents(t)
	out, err := runApp(t, testConfig(), nil, "layout", "--json", "--events", path, "--keep-same-day", "--mode", "2week", "--date", "2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []eventLayoutJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 layouts, got %d", len(got))
	}

	standup, review := got[0].Layout, got[1].Layout
	if standup == nil || review == nil {
		t.Fatalf("expected both overlapping events placed, got %+v", got)
	}
	if standup.Column != 0 || review.Column != 1 || standup.Columns != 2 {
		t.Errorf("expected columns 0 and 1 of 2, got %d and %d of %d", standup.Column, review.Column, standup.Columns)
	}
	if standup.Width != 48 || standup.Left != 2 || review.Left != 52 {
		t.Errorf("expected width 48 at 2 and 52, got %v at %v and %v", standup.Width, standup.Left, review.Left)
	}
	if standup.Top != 37.5 {
		t.Errorf("expected top 37.5, got %v", standup.Top)
	}
	if got[0].Day != "2024-06-03" {
		t.Errorf("expected day 2024-06-03, got %s", got[0].Day)
	}
}

func TestLayout_HiddenEvent(t *testing.T) {
	path := writeEvents(t)
	out, err := runApp(t, testConfig(), nil, "layout", "review", "--json", "--events", path, "--date", "2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []eventLayoutJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].Layout != nil {
		t.Errorf("expected review unplaced under FirstPerDay, got %+v", got)
	}
}

func TestLayout_OutsideView(t *testing.T) {
	path := writeEvents(t)
	// The default view is the week of 2024-06-10: standup is a week earlier.
	out, err := runApp(t, testConfig(), nil, "layout", "--json", "--events", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []eventLayoutJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 layouts, got %d", len(got))
	}
	if got[0].Layout != nil || got[1].Layout != nil {
		t.Errorf("expected events of the previous week unplaced, got %+v", got)
	}
	if got[2].Layout == nil {
		t.Errorf("expected deploy placed in its week, got %+v", got[2])
	}
}

func TestInWindow(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, time.June, d, h, 0, 0, 0, time.UTC) }
	events := []event.Event{
		{ID: "before", Start: day(2, 9), End: day(2, 10)},
		{ID: "ends-at-start", Start: day(2, 22), End: day(3, 0)},
		{ID: "crosses-start", Start: day(2, 22), End: day(3, 2)},
		{ID: "inside", Start: day(4, 9), End: day(4, 10)},
		{ID: "last-night", Start: day(9, 23), End: day(10, 1)},
		{ID: "after", Start: day(10, 0), End: day(10, 1)},
	}
	start := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC)

	var ids []string
	for _, ev := range inWindow(events, start, end, time.UTC) {
		ids = append(ids, ev.ID)
	}
	want := []string{"crosses-start", "inside", "last-night"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", ids, want)
	}
}

func TestLayout_Errors(t *testing.T) {
	path := writeEvents(t)

	if _, err := runApp(t, testConfig(), nil, "layout", "nope", "--events", path); err == nil {
		t.Error("expected an error for an unknown id")
	}
	if _, err := runApp(t, testConfig(), nil, "layout", "--mode", "month", "--events", path); err == nil {
		t.Error("expected an error for a month view")
	}
	if _, err := runApp(t, testConfig(), nil, "layout"); err == nil {
		t.Error("expected an error without an events file")
	}
}

func TestPick_Range(t *testing.T) {
	out, err := runApp(t, testConfig(), nil, "pick", "--mode", "range", "2024-06-12", "2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Selected: 3") {
		t.Errorf("expected 3 selected dates, got:\n%s", out)
	}
	if !strings.Contains(out, "2024-06-10, 2024-06-11, 2024-06-12") {
		t.Errorf("expected the filled range, got:\n%s", out)
	}
	if !strings.Contains(out, "June 2024") {
		t.Errorf("expected a month grid, got:\n%s", out)
	}
}

func TestPick_OutOfBounds(t *testing.T) {
	out, err := runApp(t, testConfig(), nil, "pick", "--max", "2024-06-15", "2024-06-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "skipped 2024-06-20 (out of bounds)") {
		t.Errorf("expected the date to be skipped, got:\n%s", out)
	}
	if !strings.Contains(out, "Selected: 0") {
		t.Errorf("expected an empty selection, got:\n%s", out)
	}
}

func TestPick_InvalidBounds(t *testing.T) {
	if _, err := runApp(t, testConfig(), nil, "pick", "--min", "2024-06-20", "--max", "2024-06-10", "today"); err == nil {
		t.Error("expected an error for min after max")
	}
}

func TestTimer_RunsToCompletion(t *testing.T) {
	out, err := runApp(t, testConfig(), clock.System{}, "timer", "30ms", "--tick", "5ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Done!") {
		t.Errorf("expected the timer to finish, got:\n%s", out)
	}
}

func TestTimer_InvalidDuration(t *testing.T) {
	if _, err := runApp(t, testConfig(), nil, "timer", "soon"); err == nil {
		t.Error("expected an error for an invalid duration")
	}
	if _, err := runApp(t, testConfig(), nil, "timer", "-5s"); err == nil {
		t.Error("expected an error for a negative duration")
	}
}

func TestConfig_Interactive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	DisableColor()
	app := NewApp(testConfig(), nil)
	var out bytes.Buffer
	app.SetOutput(&out)
	// edit? week start, locale, zone, view, keep, side, inner, max, events, tick
	app.SetInput(strings.NewReader("y\nsunday\n\n\n2week\n\n\n\n\n\n\n"))
	app.SetArgs([]string{"config", "--path", path})
	if err := app.Execute(); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out.String())
	}

	if !strings.Contains(out.String(), "Configuration saved!") {
		t.Errorf("expected the config to be saved, got:\n%s", out.String())
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if cfg.Calendar.WeekStart != "sunday" {
		t.Errorf("expected week_start sunday, got %s", cfg.Calendar.WeekStart)
	}
	if cfg.Calendar.View != "2week" {
		t.Errorf("expected view 2week, got %s", cfg.Calendar.View)
	}
	if cfg.Layout.MaxHeight != 20 {
		t.Errorf("expected max_height kept at 20, got %v", cfg.Layout.MaxHeight)
	}
}

func TestConfig_Show(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	out, err := runApp(t, testConfig(), nil, "config", "--show", "--path", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "view                 = month") {
		t.Errorf("expected the default view, got:\n%s", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected --show not to create the config file")
	}
}
