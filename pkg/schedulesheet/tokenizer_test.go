package schedulesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHourMinutes(t *testing.T) {
	tests := []struct {
		name     string
		slice    string
		entry    HourEntry
		dropped  int
		expected bool
	}{
		{
			name:     "hour and minutes",
			slice:    "  6   05 20 35   ",
			entry:    HourEntry{Hour: 6, Minutes: []int{5, 20, 35}},
			expected: true,
		},
		{
			name:     "trailing artifact",
			slice:    "7 05 20 x",
			entry:    HourEntry{Hour: 7, Minutes: []int{5, 20}},
			dropped:  1,
			expected: true,
		},
		{
			name:     "artifact between minutes",
			slice:    "22 10 * 40",
			entry:    HourEntry{Hour: 22, Minutes: []int{10, 40}},
			dropped:  1,
			expected: true,
		},
		{
			name:  "single token",
			slice: "   7   ",
		},
		{
			name:  "empty",
			slice: "",
		},
		{
			name:    "no minute parses",
			slice:   "7 x y",
			dropped: 2,
		},
		{
			name:    "hour does not parse",
			slice:   "h 05 20",
			dropped: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			entry, dropped, ok := ParseHourMinutes(test.slice)

			assert.Equal(t, test.expected, ok)
			assert.Equal(t, test.dropped, dropped)
			if test.expected {
				assert.Equal(t, test.entry, entry)
			}
		})
	}
}
