package schedulesheet

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRoundTrip(t *testing.T) {
	catalog := DefaultCatalog()

	workdays := newStopSchedule(catalog.LabelSets[0])
	workdays.set("ZILE LUCRĂTOARE", HourEntry{Hour: 5, Minutes: []int{0, 15, 30, 45}})
	workdays.set("ZILE LUCRĂTOARE", HourEntry{Hour: 23, Minutes: []int{10}})
	workdays.set("ZILE NELUCRĂTOARE", HourEntry{Hour: 6, Minutes: []int{5}})

	weekly := newStopSchedule(catalog.LabelSets[2])
	weekly.set("SAMBATA", HourEntry{Hour: 7, Minutes: []int{20, 50}})
	weekly.set("DUMINICA", HourEntry{Hour: 7, Minutes: []int{35}})
	weekly.set("DUMINICA", HourEntry{Hour: 12, Minutes: []int{0}})

	original := NewTimetableDocument()
	original.Set("Piata Victoriei", workdays)
	original.Set("Catedrala", weekly)
	original.Set("Gara de Nord", newStopSchedule(catalog.LabelSets[3]))

	var rendered bytes.Buffer
	require.NoError(t, Render(&rendered, original, catalog))

	parsed, diagnostics := testParser(catalog).ParseReader(strings.NewReader(rendered.String()))
	assert.Empty(t, diagnostics.SkippedStops)
	assert.Equal(t, 0, diagnostics.DroppedTokens)

	assert.Equal(t, original, parsed)

	originalJSON, err := json.Marshal(original)
	require.NoError(t, err)
	parsedJSON, err := json.Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(t, string(originalJSON), string(parsedJSON))
}

func TestRenderParsedSheet(t *testing.T) {
	catalog := testCatalog()

	input := sheet(
		"Piata Victoriei",
		"WORKDAYS NON-WORKING DAYS",
		twoColumnSubHeader,
		twoColumnRow("6 05 20 35", "6 10 40"),
		twoColumnRow("", "7 00"),
		"\fCatedrala",
		"DAILY",
		"HOUR",
		"5 00 30",
	)

	first, _ := testParser(catalog).ParseReader(strings.NewReader(input))

	var rendered bytes.Buffer
	require.NoError(t, Render(&rendered, first, catalog))

	second, _ := testParser(catalog).ParseReader(strings.NewReader(rendered.String()))
	assert.Equal(t, first, second)

	lines := strings.Split(rendered.String(), "\n")
	assert.Equal(t, "Piata Victoriei", lines[0])
	assert.Equal(t, "WORKDAYS    NON-WORKING DAYS", lines[1])
	assert.Equal(t, "6 05 20 35", strings.TrimSpace(lines[3][:14]))
	assert.Equal(t, "\fCatedrala", lines[5])
	assert.Equal(t, "\f", lines[len(lines)-2])
}
