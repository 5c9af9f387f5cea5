package ctdf

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

type StopTimetable struct {
	PrimaryIdentifier string `groups:"basic"`

	DocumentRef string `groups:"basic"`
	StopName    string `groups:"basic"`
	Position    int    `groups:"detailed"`

	ScheduleClasses []*ScheduleClass `groups:"basic"`
	Departures      int              `groups:"basic"`

	CreationDateTime     time.Time `groups:"detailed"`
	ModificationDateTime time.Time `groups:"detailed"`

	DataSource *DataSourceReference `groups:"internal"`
}

type ScheduleClass struct {
	Label string            `groups:"basic"`
	Hours []*HourDepartures `groups:"basic"`
}

type HourDepartures struct {
	Hour    int   `groups:"basic"`
	Minutes []int `groups:"basic"`
}

func (s *StopTimetable) GetScheduleClass(label string) *ScheduleClass {
	for _, scheduleClass := range s.ScheduleClasses {
		if scheduleClass.Label == label {
			return scheduleClass
		}
	}

	return nil
}

// DepartureTimes lists every departure of a schedule class as minutes past midnight
func (c *ScheduleClass) DepartureTimes() []time.Duration {
	var times []time.Duration

	for _, hour := range c.Hours {
		for _, minute := range hour.Minutes {
			times = append(times, time.Duration(hour.Hour)*time.Hour+time.Duration(minute)*time.Minute)
		}
	}

	return times
}

// StopTimetableIdentifier derives the identifier of a stop from its name. Different names can share a
// slug, so callers keeping several stops of one document must still make the results unique.
func StopTimetableIdentifier(dataset string, document string, stopName string) string {
	slug := slugify(stopName)
	if slug == "" {
		slug = "stop"
	}

	return fmt.Sprintf("%s:%s:%s", dataset, strings.TrimSuffix(document, ".pdf"), slug)
}

func slugify(name string) string {
	var slug strings.Builder
	lastDash := true

	for _, r := range norm.NFD.String(strings.ToLower(name)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			slug.WriteRune(r)
			lastDash = false
		case !lastDash:
			slug.WriteByte('-')
			lastDash = true
		}
	}

	return strings.TrimSuffix(slug.String(), "-")
}
