package schedulesheet

import (
	"bytes"
	"encoding/json"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ScheduleClassTable maps an hour to its departure minutes
type ScheduleClassTable map[int][]int

// Hours returns the hours of the table in ascending order
func (t ScheduleClassTable) Hours() []int {
	hours := maps.Keys(t)
	slices.Sort(hours)
	return hours
}

func (t ScheduleClassTable) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')

	for i, hour := range t.Hours() {
		if i > 0 {
			buffer.WriteByte(',')
		}

		buffer.WriteString(strconv.Quote(strconv.Itoa(hour)))
		buffer.WriteByte(':')

		minutes, err := json.Marshal(t[hour])
		if err != nil {
			return nil, err
		}
		buffer.Write(minutes)
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// StopSchedule holds one table per label of the label set that matched the stop's header
type StopSchedule struct {
	Labels  []string
	Classes map[string]ScheduleClassTable
}

func newStopSchedule(labelSet LabelSet) *StopSchedule {
	schedule := &StopSchedule{
		Labels:  make([]string, 0, len(labelSet)),
		Classes: make(map[string]ScheduleClassTable, len(labelSet)),
	}

	for _, label := range labelSet {
		if _, exists := schedule.Classes[label]; exists {
			continue
		}

		schedule.Labels = append(schedule.Labels, label)
		schedule.Classes[label] = ScheduleClassTable{}
	}

	return schedule
}

func (s *StopSchedule) set(label string, entry HourEntry) {
	s.Classes[label][entry.Hour] = entry.Minutes
}

// Departures counts every minute entry across all schedule classes
func (s *StopSchedule) Departures() int {
	count := 0
	for _, table := range s.Classes {
		for _, minutes := range table {
			count += len(minutes)
		}
	}

	return count
}

func (s *StopSchedule) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')

	for i, label := range s.Labels {
		if i > 0 {
			buffer.WriteByte(',')
		}

		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')

		table, err := s.Classes[label].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buffer.Write(table)
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

type StopTimetable struct {
	Name     string
	Schedule *StopSchedule
}

// TimetableDocument is every stop of one rendered sheet, in the order the stops appear
type TimetableDocument struct {
	Stops []*StopTimetable

	positions map[string]int
}

func NewTimetableDocument() *TimetableDocument {
	return &TimetableDocument{
		Stops:     []*StopTimetable{},
		positions: map[string]int{},
	}
}

// Set adds a stop at the end of the document. A stop name seen before keeps its original position and
// has its schedule replaced.
func (d *TimetableDocument) Set(name string, schedule *StopSchedule) {
	if position, exists := d.positions[name]; exists {
		d.Stops[position].Schedule = schedule
		return
	}

	d.positions[name] = len(d.Stops)
	d.Stops = append(d.Stops, &StopTimetable{Name: name, Schedule: schedule})
}

func (d *TimetableDocument) Get(name string) (*StopSchedule, bool) {
	position, exists := d.positions[name]
	if !exists {
		return nil, false
	}

	return d.Stops[position].Schedule, true
}

func (d *TimetableDocument) Len() int {
	return len(d.Stops)
}

func (d *TimetableDocument) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')

	for i, stop := range d.Stops {
		if i > 0 {
			buffer.WriteByte(',')
		}

		key, err := json.Marshal(stop.Name)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')

		schedule, err := stop.Schedule.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buffer.Write(schedule)
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}
