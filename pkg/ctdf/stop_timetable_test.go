package ctdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopTimetableIdentifier(t *testing.T) {
	assert.Equal(t, "ro-ratt-timetables:13a:piata-victoriei", StopTimetableIdentifier("ro-ratt-timetables", "13a.pdf", "Piata Victoriei"))
	assert.Equal(t, "ro-ratt-timetables:e4b-a:statia-p-ta-marasti", StopTimetableIdentifier("ro-ratt-timetables", "e4b-a.pdf", "Staţia  P-ţa Mărăşti "))
	assert.Equal(t, "ro-ratt-timetables:13a:stop", StopTimetableIdentifier("ro-ratt-timetables", "13a.pdf", "* * *"))
}

func TestScheduleClassDepartureTimes(t *testing.T) {
	scheduleClass := &ScheduleClass{
		Label: "DUMINICA",
		Hours: []*HourDepartures{
			{Hour: 5, Minutes: []int{10, 40}},
			{Hour: 23, Minutes: []int{5}},
		},
	}

	assert.Equal(t, []time.Duration{
		5*time.Hour + 10*time.Minute,
		5*time.Hour + 40*time.Minute,
		23*time.Hour + 5*time.Minute,
	}, scheduleClass.DepartureTimes())

	timetable := &StopTimetable{ScheduleClasses: []*ScheduleClass{scheduleClass}}
	assert.Same(t, scheduleClass, timetable.GetScheduleClass("DUMINICA"))
	assert.Nil(t, timetable.GetScheduleClass("SAMBATA"))
}

func TestDatasetVersionMatches(t *testing.T) {
	var missing *DatasetVersion
	assert.False(t, missing.Matches("abc", "", ""))

	version := &DatasetVersion{Hash: "abc", ETag: "\"1\"", LastModified: "Mon, 01 Jan 2024 00:00:00 GMT"}
	assert.True(t, version.Matches("abc", "\"2\"", ""))
	assert.False(t, version.Matches("def", "\"1\"", ""))
	assert.True(t, version.Matches("", "\"1\"", ""))
	assert.True(t, version.Matches("", "", "Mon, 01 Jan 2024 00:00:00 GMT"))
	assert.False(t, version.Matches("", "", ""))
}
