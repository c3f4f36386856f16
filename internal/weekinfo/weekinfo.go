// Package weekinfo maps locales to week conventions: the first day of the
// week, the weekend days and the minimal days of the first week of a year.
package weekinfo

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Info describes the week conventions of a region. Days use ISO numbering,
// 1 for Monday through 7 for Sunday.
type Info struct {
	FirstDay    int
	Weekend     []int
	MinimalDays int
}

// IsWeekend reports whether the ISO weekday is a weekend day.
func (i Info) IsWeekend(isoDay int) bool {
	return slices.Contains(i.Weekend, isoDay)
}

// Default is used for regions without an entry: Monday first, Saturday and
// Sunday off, and the week containing January 1st is week 1.
var Default = Info{FirstDay: 1, Weekend: []int{6, 7}, MinimalDays: 1}

// Lookup resolves week conventions for a locale.
type Lookup interface {
	Lookup(locale string) Info
}

// Table is a Lookup backed by a region table.
type Table struct {
	regions  map[string]Info
	fallback Info
}

// NewTable creates a Table from region codes (ISO 3166 alpha-2) to Info.
func NewTable(regions map[string]Info, fallback Info) *Table {
	t := &Table{regions: make(map[string]Info, len(regions)), fallback: fallback}
	for code, info := range regions {
		t.regions[strings.ToUpper(code)] = info
	}
	return t
}

// Lookup parses locale as a BCP 47 tag and returns the conventions of its
// region. A tag without a region ("en", "de") uses its most likely region.
// Unparsable or unknown locales get the fallback.
func (t *Table) Lookup(locale string) Info {
	tag, err := language.Parse(locale)
	if err != nil {
		return t.fallback
	}
	return t.ForTag(tag)
}

// ForTag returns the conventions of tag's region.
func (t *Table) ForTag(tag language.Tag) Info {
	region, conf := tag.Region()
	if conf == language.No {
		return t.fallback
	}
	return t.ForRegion(region.String())
}

// ForRegion returns the conventions of an ISO 3166 alpha-2 region code.
func (t *Table) ForRegion(code string) Info {
	if info, ok := t.regions[strings.ToUpper(code)]; ok {
		return info
	}
	return t.fallback
}

// Region returns the region a locale resolves to, e.g. "US" for "en".
func Region(locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	region, conf := tag.Region()
	if conf == language.No {
		return "", fmt.Errorf("locale %q has no region", locale)
	}
	return region.String(), nil
}

// Validate reports whether locale is a well-formed BCP 47 tag.
func Validate(locale string) error {
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return nil
}
