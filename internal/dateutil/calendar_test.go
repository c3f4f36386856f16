package dateutil

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata" // DST tests must not depend on the host zoneinfo
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestISOWeekday(t *testing.T) {
	if got := ISOWeekday(date(2024, 6, 3)); got != 1 {
		t.Errorf("Monday: got %d, want 1", got)
	}
	if got := ISOWeekday(date(2024, 6, 9)); got != 7 {
		t.Errorf("Sunday: got %d, want 7", got)
	}
}

func TestFirstDayOfMonth(t *testing.T) {
	got := FirstDayOfMonth(time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC))
	if want := date(2024, 2, 1); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := LastDayOfMonth(date(2024, 2, 10)), date(2024, 2, 29); !got.Equal(want) {
		t.Errorf("last day: got %v, want %v", got, want)
	}
}

func TestFirstDayOfWeek(t *testing.T) {
	tests := []struct {
		name      string
		input     time.Time
		weekStart int
		want      time.Time
	}{
		{name: "monday start on saturday", input: date(2024, 6, 1), weekStart: 1, want: date(2024, 5, 27)},
		{name: "monday start on monday", input: date(2024, 6, 3), weekStart: 1, want: date(2024, 6, 3)},
		{name: "sunday start on saturday", input: date(2024, 6, 1), weekStart: 7, want: date(2024, 5, 26)},
		{name: "sunday start on sunday", input: date(2024, 6, 2), weekStart: 7, want: date(2024, 6, 2)},
		{name: "saturday start on friday", input: date(2024, 6, 7), weekStart: 6, want: date(2024, 6, 1)},
		{name: "time of day is dropped", input: time.Date(2024, 6, 5, 18, 45, 0, 0, time.UTC), weekStart: 1, want: date(2024, 6, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstDayOfWeek(tt.input, tt.weekStart)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	first, last := WeekRange(date(2025, 1, 8), 1)
	if !first.Equal(date(2025, 1, 6)) || !last.Equal(date(2025, 1, 12)) {
		t.Errorf("got %v - %v, want 2025-01-06 - 2025-01-12", first, last)
	}
}

func TestStartOf(t *testing.T) {
	in := time.Date(2027, 8, 19, 15, 4, 5, 0, time.UTC) // Thursday

	tests := []struct {
		unit Unit
		want time.Time
	}{
		{UnitDay, date(2027, 8, 19)},
		{UnitWeek, date(2027, 8, 15)}, // weekStart Sunday
		{UnitWorkWeek, date(2027, 8, 16)},
		{UnitMonth, date(2027, 8, 1)},
		{UnitYear, date(2027, 1, 1)},
		{UnitDecade, date(2020, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			got, err := StartOf(in, tt.unit, 7)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEndOf(t *testing.T) {
	in := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) // Saturday
	eod := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, 999_999_999, time.UTC)
	}

	tests := []struct {
		name  string
		unit  Unit
		value int
		want  time.Time
	}{
		{name: "day", unit: UnitDay, value: 1, want: eod(2024, 6, 15)},
		{name: "week", unit: UnitWeek, value: 1, want: eod(2024, 6, 16)},
		{name: "workWeek ends friday", unit: UnitWorkWeek, value: 1, want: eod(2024, 6, 14)},
		{name: "month", unit: UnitMonth, value: 1, want: eod(2024, 6, 30)},
		{name: "two months pad to the week end", unit: UnitMonth, value: 2, want: eod(2024, 8, 4)},
		{name: "year", unit: UnitYear, value: 1, want: eod(2024, 12, 31)},
		{name: "decade", unit: UnitDecade, value: 1, want: eod(2029, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EndOf(in, tt.unit, tt.value, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartEndOf_Errors(t *testing.T) {
	in := date(2024, 6, 15)

	if _, err := StartOf(in, Unit("fortnight"), 1); !errors.Is(err, ErrUnsupportedUnit) {
		t.Errorf("StartOf: got error %v, want %v", err, ErrUnsupportedUnit)
	}
	if _, err := EndOf(in, Unit("hour"), 1, 1); !errors.Is(err, ErrUnsupportedUnit) {
		t.Errorf("EndOf: got error %v, want %v", err, ErrUnsupportedUnit)
	}
	if _, err := StartOf(in, UnitWeek, 0); !errors.Is(err, ErrInvalidWeekStart) {
		t.Errorf("StartOf week: got error %v, want %v", err, ErrInvalidWeekStart)
	}
	if _, err := EndOf(in, UnitWeek, 1, 8); !errors.Is(err, ErrInvalidWeekStart) {
		t.Errorf("EndOf week: got error %v, want %v", err, ErrInvalidWeekStart)
	}
}

func TestStartEndOfDay_AcrossDST(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}

	tests := []struct {
		name       string
		day        time.Time
		wantOffset int // seconds east of UTC at 23:59:59.999999999
		wantHours  float64
	}{
		{name: "last BST day", day: time.Date(2023, 10, 28, 12, 0, 0, 0, london), wantOffset: 3600, wantHours: 24},
		{name: "fall back day", day: time.Date(2023, 10, 29, 12, 0, 0, 0, london), wantOffset: 0, wantHours: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := StartOf(tt.day, UnitDay, 1)
			if err != nil {
				t.Fatalf("StartOf: %v", err)
			}
			end, err := EndOf(tt.day, UnitDay, 1, 1)
			if err != nil {
				t.Fatalf("EndOf: %v", err)
			}

			if h, m, s := end.Clock(); h != 23 || m != 59 || s != 59 || end.Nanosecond() != 999_999_999 {
				t.Errorf("end wall clock: got %v, want 23:59:59.999999999", end)
			}
			if _, offset := end.Zone(); offset != tt.wantOffset {
				t.Errorf("end offset: got %d, want %d", offset, tt.wantOffset)
			}

			// Every instant of the local day lies inside [start, end].
			for probe := start; SameDay(probe, tt.day); probe = probe.Add(30 * time.Minute) {
				if probe.Before(start) || probe.After(end) {
					t.Errorf("instant %v escapes [%v, %v]", probe, start, end)
				}
			}

			if got := end.Sub(start).Hours(); got < tt.wantHours-0.001 || got > tt.wantHours {
				t.Errorf("day length: got %.3fh, want about %.0fh", got, tt.wantHours)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(date(2024, 2, 27), date(2024, 3, 2)); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
	if got := DaysBetween(date(2024, 3, 2), date(2024, 2, 27)); got != -4 {
		t.Errorf("got %d, want -4", got)
	}
}

func TestDateRange(t *testing.T) {
	t.Run("inclusive ascending", func(t *testing.T) {
		got := DateRange(date(2024, 2, 27), date(2024, 3, 2))
		want := []time.Time{date(2024, 2, 27), date(2024, 2, 28), date(2024, 2, 29), date(2024, 3, 1), date(2024, 3, 2)}
		if len(got) != len(want) {
			t.Fatalf("got %d days, want %d", len(got), len(want))
		}
		for i := range want {
			if !got[i].Equal(want[i]) {
				t.Errorf("day %d: got %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("length is days between plus one", func(t *testing.T) {
		starts := []time.Time{date(2023, 12, 25), date(2024, 1, 1), date(2024, 2, 28)}
		for _, s := range starts {
			for n := 0; n < 70; n += 7 {
				e := s.AddDate(0, 0, n)
				if got := len(DateRange(s, e)); got != DaysBetween(s, e)+1 {
					t.Errorf("%v..%v: got %d days, want %d", s, e, got, DaysBetween(s, e)+1)
				}
			}
		}
	})

	t.Run("single day", func(t *testing.T) {
		if got := DateRange(date(2024, 1, 1), date(2024, 1, 1)); len(got) != 1 {
			t.Errorf("got %d days, want 1", len(got))
		}
	})

	t.Run("start after end is empty", func(t *testing.T) {
		got := DateRange(date(2024, 1, 2), date(2024, 1, 1))
		if got == nil || len(got) != 0 {
			t.Errorf("got %v, want empty non-nil slice", got)
		}
	})

	t.Run("zoned endpoints use wall-clock dates", func(t *testing.T) {
		london, err := time.LoadLocation("Europe/London")
		if err != nil {
			t.Fatalf("loading zone: %v", err)
		}
		got := DateRange(time.Date(2023, 10, 28, 23, 0, 0, 0, london), time.Date(2023, 10, 30, 0, 30, 0, 0, london))
		if len(got) != 3 {
			t.Fatalf("got %d days, want 3", len(got))
		}
		if !got[1].Equal(date(2023, 10, 29)) {
			t.Errorf("got %v, want 2023-10-29", got[1])
		}
	})
}

func TestGenerateDateRange(t *testing.T) {
	got, err := GenerateDateRange("2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d days, want 3", len(got))
	}

	empty, err := GenerateDateRange("2024-06-03", "2024-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d days, want 0", len(empty))
	}

	if _, err := GenerateDateRange("2024-06-01", "June 3"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
	}
	if _, err := GenerateDateRange("bogus", "2024-06-01"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
	}
}

func TestWeekOfYear(t *testing.T) {
	tests := []struct {
		name        string
		input       time.Time
		weekStart   int
		minimalDays int
		wantYear    int
		wantWeek    int
	}{
		{name: "ISO week 53 of previous year", input: date(2021, 1, 1), weekStart: 1, minimalDays: 4, wantYear: 2020, wantWeek: 53},
		{name: "ISO week 1 of next year", input: date(2024, 12, 30), weekStart: 1, minimalDays: 4, wantYear: 2025, wantWeek: 1},
		{name: "ISO mid year", input: date(2024, 6, 15), weekStart: 1, minimalDays: 4, wantYear: 2024, wantWeek: 24},
		{name: "US week containing Jan 1", input: date(2022, 1, 1), weekStart: 7, minimalDays: 1, wantYear: 2022, wantWeek: 1},
		{name: "US second week", input: date(2022, 1, 2), weekStart: 7, minimalDays: 1, wantYear: 2022, wantWeek: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week := WeekOfYear(tt.input, tt.weekStart, tt.minimalDays)
			if year != tt.wantYear || week != tt.wantWeek {
				t.Errorf("got %d-W%02d, want %d-W%02d", year, week, tt.wantYear, tt.wantWeek)
			}
		})
	}
}
