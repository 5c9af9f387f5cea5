package schedulesheet

import (
	"strconv"
	"strings"
)

// HourEntry is one hour of a schedule class and its departure minutes in sheet order
type HourEntry struct {
	Hour    int
	Minutes []int
}

// ParseHourMinutes reads "<hour> <minute> <minute>..." from one column slice of a data line.
//
// ok is false when the slice holds no departure: fewer than two tokens, no minute that parses, or an
// hour that does not parse. Tokens that fail to parse are dropped and counted in dropped.
func ParseHourMinutes(slice string) (entry HourEntry, dropped int, ok bool) {
	tokens := strings.Fields(slice)
	if len(tokens) < 2 {
		return HourEntry{}, 0, false
	}

	minutes := make([]int, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		minute, err := strconv.Atoi(token)
		if err != nil {
			dropped++
			continue
		}

		minutes = append(minutes, minute)
	}

	if len(minutes) == 0 {
		return HourEntry{}, dropped, false
	}

	hour, err := strconv.Atoi(tokens[0])
	if err != nil {
		return HourEntry{}, dropped + 1, false
	}

	return HourEntry{Hour: hour, Minutes: minutes}, dropped, true
}
