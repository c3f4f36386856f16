package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/almanac/internal/calendar"
	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// cellWidth is the width of one day cell in a grid row.
const cellWidth = 4

// FormatDuration formats a duration as a compact human-readable string.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	minutes := int(d / time.Minute)
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// FormatClock formats a countdown as MM:SS, or H:MM:SS past an hour.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ProgressBar renders pct (0..100) as a bar of width cells.
func ProgressBar(pct float64, width int) string {
	pct = min(max(pct, 0), 100)
	filled := int(pct * float64(width) / 100)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// periodTitle names the period a view covers.
func periodTitle(mode calendar.ViewMode, start, end, period time.Time) string {
	switch {
	case mode.Unit == dateutil.UnitMonth && mode.Value == 1:
		return period.Format("January 2006")
	case mode.Unit == dateutil.UnitMonth:
		last := period.AddDate(0, mode.Value-1, 0)
		return period.Format("January 2006") + " - " + last.Format("January 2006")
	case start.Equal(end):
		return start.Format("Monday, Jan 2 2006")
	default:
		return start.Format("Mon Jan 2") + " - " + end.Format("Mon Jan 2, 2006")
	}
}

// weekdayHeader returns the short weekday names of a row starting at
// firstDay, count columns wide.
func weekdayHeader(firstDay, count int) string {
	var b strings.Builder
	for i := range count {
		iso := (firstDay-1+i)%7 + 1
		name := dateutil.WeekdayName(iso)
		fmt.Fprintf(&b, "%*s", cellWidth, strings.ToUpper(name[:1])+name[1:2])
	}
	return b.String()
}

// dayCell renders one grid cell: the day of month, a trailing dot when the
// day has events, colored by whether it is today or outside the period.
func dayCell(d *calendar.Day) string {
	if d == nil {
		return strings.Repeat(" ", cellWidth)
	}
	mark := " "
	if len(d.Events) > 0 {
		mark = "•"
	}
	text := fmt.Sprintf("%*d", cellWidth-1, d.Date.Day())
	switch {
	case d.IsToday:
		text = paint(roleToday, text)
	case !d.IsInCurrentPeriod || d.Filler:
		text = paint(roleMuted, text)
	}
	if mark != " " {
		mark = paint(roleEvent, mark)
	}
	return text + mark
}

// eventSpan formats the visible time range of a ref in loc. Fragments that
// continue past midnight show an arrow at the open end.
func eventSpan(ref event.Ref, loc *time.Location) string {
	start := ref.Start.In(loc).Format("15:04")
	end := ref.End.In(loc).Format("15:04")
	if !ref.IsFirstPart() {
		start = "  ···"
	}
	if !ref.IsLastPart() {
		end = "···  "
	}
	return start + "-" + end
}

// truncate shortens s to width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
