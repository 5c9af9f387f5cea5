// Package schedulesheet parses layout-preserving text renderings of printed stop timetable sheets
// (the output of `pdftotext -layout`) into per-stop schedules keyed by schedule class, hour and minute.
package schedulesheet

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PageBreak is the form feed the renderer writes as the first character of every new page
const PageBreak = '\f'

// LabelSet is the ordered list of header labels whose joint presence identifies a schedule class header
type LabelSet []string

// Catalog is the fixed vocabulary a sheet is parsed with. It is read-only once a Parser has been built from it.
type Catalog struct {
	LabelSets   []LabelSet `json:",omitempty" validate:"required,min=1,dive,min=1,dive,required"`
	SpamLines   []string   `json:",omitempty"`
	MarkerToken string     `validate:"required"`

	// Number of lines searched for the sub-header after a header matched, 0 means until the next page break
	MaxSubHeaderLookahead int `validate:"gte=0"`
}

// DefaultCatalog is the vocabulary used on the RATT Timisoara stop sheets
func DefaultCatalog() Catalog {
	return Catalog{
		LabelSets: []LabelSet{
			{"ZILE LUCRĂTOARE", "ZILE NELUCRĂTOARE"},
			{"ZI LUCRĂTOARE", "ZI NELUCRATOARE"},
			{"ZILE LUCRĂTOARE", "SAMBATA", "DUMINICA"},
			{"LUNI-SAMBATA", "DUMINICA"},
		},
		SpamLines: []string{
			"Obs : faţă de orele de plecare afişate pot apărea întârzieri de până la 3 min datorită condiţiilor de trafic",
			"Vizitati www.ratt.ro Informatii trasee - preturi bilete/abonamente - grafice circulatie - harta MTC - forum",
		},
		MarkerToken: "ORA",
	}
}

// IsSpam reports whether the line is exactly one of the known boilerplate lines
func (c Catalog) IsSpam(line string) bool {
	for _, spam := range c.SpamLines {
		if line == spam {
			return true
		}
	}

	return false
}

// ClassifyHeader returns the first label set whose labels all occur in the normalised line
func (c Catalog) ClassifyHeader(normalisedLine string) (LabelSet, bool) {
	for _, labelSet := range c.LabelSets {
		if labelSet.matches(normalisedLine) {
			return labelSet, true
		}
	}

	return nil, false
}

func (l LabelSet) matches(normalisedLine string) bool {
	if len(l) == 0 {
		return false
	}

	for _, label := range l {
		if !strings.Contains(normalisedLine, norm.NFC.String(label)) {
			return false
		}
	}

	return true
}

// NormaliseWhitespace collapses every run of whitespace into a single space, trims the result and
// composes combining diacritics so headers compare equal regardless of how the renderer encoded them.
func NormaliseWhitespace(line string) string {
	return norm.NFC.String(strings.Join(strings.Fields(line), " "))
}
