// Package source loads calendar events from files: iCalendar (.ics),
// YAML (.yaml, .yml) and JSON (.json).
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// Errors returned by the loader.
var (
	ErrUnknownFormat = errors.New("unknown events file format")
	ErrEmptyFile     = errors.New("events file is empty")
)

// Format is an events file encoding.
type Format string

const (
	FormatICS  Format = "ics"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat picks a Format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ics", ".ical":
		return FormatICS, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// File is the YAML and JSON layout of an events file.
type File struct {
	Events []Record `yaml:"events" json:"events"`
}

// Record is one event as written in a YAML or JSON file. Start and End take
// RFC 3339 timestamps, or local date-times ("2024-06-03T09:00") read in the
// loader's zone.
type Record struct {
	ID        string   `yaml:"id,omitempty" json:"id,omitempty"`
	Title     string   `yaml:"title" json:"title"`
	Start     string   `yaml:"start" json:"start"`
	End       string   `yaml:"end" json:"end"`
	Resources []string `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Loader reads events files.
type Loader struct {
	// Location is the zone for timestamps without an offset. Nil means time.Local.
	Location *time.Location
	Logger   *slog.Logger
	// NewID generates ids for events that have none. Nil means uuid.NewString.
	NewID func() string
}

// Load reads the events file at path.
func (l Loader) Load(path string) ([]event.Event, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events file: %w", err)
	}
	events, err := l.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	l.logger().Info("events loaded", "path", path, "format", format, "count", len(events))
	return events, nil
}

// Parse decodes events from data in the given format.
func (l Loader) Parse(data []byte, format Format) ([]event.Event, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	switch format {
	case FormatICS:
		return l.parseICS(bytes.NewReader(data))
	case FormatYAML:
		var f File
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		return l.fromRecords(f.Events)
	case FormatJSON:
		var f File
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
		return l.fromRecords(f.Events)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func (l Loader) fromRecords(records []Record) ([]event.Event, error) {
	loc := l.location()
	events := make([]event.Event, 0, len(records))
	for i, r := range records {
		start, err := dateutil.ParseDateTime(r.Start, loc)
		if err != nil {
			return nil, fmt.Errorf("event %d start: %w", i+1, err)
		}
		end, err := dateutil.ParseDateTime(r.End, loc)
		if err != nil {
			return nil, fmt.Errorf("event %d end: %w", i+1, err)
		}
		id := r.ID
		if id == "" {
			id = l.newID()
		}
		ev, err := event.New(id, r.Title, start, end, r.Resources...)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// parseICS keeps going past malformed VEVENTs and logs them. Recurrence
// rules are not expanded; only the first occurrence is loaded.
func (l Loader) parseICS(r io.Reader) ([]event.Event, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("decoding ics: %w", err)
	}

	logger := l.logger()
	events := make([]event.Event, 0)
	for _, ve := range cal.Events() {
		ev, err := l.fromVEvent(ve)
		if err != nil {
			logger.Warn("skipping vevent", "id", ve.Id(), "error", err)
			continue
		}
		if ve.GetProperty(ical.ComponentPropertyRrule) != nil {
			logger.Debug("recurrence not expanded", "id", ev.ID)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (l Loader) fromVEvent(ve *ical.VEvent) (event.Event, error) {
	loc := l.location()

	id := ""
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		id = strings.TrimSpace(p.Value)
	}
	if id == "" {
		id = l.newID()
	}

	title := ""
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		title = p.Value
	}
	var resources []string
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil && p.Value != "" {
		resources = append(resources, p.Value)
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return event.Event{}, errors.New("missing DTSTART")
	}

	var start, end time.Time
	if isDateValue(dtStart) {
		s, err := ve.GetAllDayStartAt()
		if err != nil {
			return event.Event{}, fmt.Errorf("DTSTART: %w", err)
		}
		start = inZone(s, loc)
		end = start.AddDate(0, 0, 1)
		if e, err := ve.GetAllDayEndAt(); err == nil {
			end = inZone(e, loc)
		}
	} else {
		s, err := ve.GetStartAt()
		if err != nil {
			return event.Event{}, fmt.Errorf("DTSTART: %w", err)
		}
		start = s.In(loc)
		end = start
		if e, err := ve.GetEndAt(); err == nil {
			end = e.In(loc)
		}
	}

	return event.New(id, title, start, end, resources...)
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// inZone keeps the wall-clock date of t and moves it to midnight in loc.
func inZone(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (l Loader) location() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}

func (l Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}

func (l Loader) newID() string {
	if l.NewID == nil {
		return uuid.NewString()
	}
	return l.NewID()
}
