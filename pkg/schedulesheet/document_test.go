package schedulesheet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimetableDocumentSet(t *testing.T) {
	document := NewTimetableDocument()

	first := newStopSchedule(LabelSet{"A"})
	second := newStopSchedule(LabelSet{"B"})
	replacement := newStopSchedule(LabelSet{"C"})

	document.Set("Catedrala", first)
	document.Set("Piata Victoriei", second)
	document.Set("Catedrala", replacement)

	assert.Equal(t, 2, document.Len())
	assert.Equal(t, "Catedrala", document.Stops[0].Name)
	assert.Equal(t, "Piata Victoriei", document.Stops[1].Name)

	schedule, found := document.Get("Catedrala")
	assert.True(t, found)
	assert.Same(t, replacement, schedule)

	_, found = document.Get("Gara de Nord")
	assert.False(t, found)
}

func TestStopScheduleDuplicateLabels(t *testing.T) {
	schedule := newStopSchedule(LabelSet{"DUMINICA", "SAMBATA", "DUMINICA"})

	assert.Equal(t, []string{"DUMINICA", "SAMBATA"}, schedule.Labels)
	assert.Len(t, schedule.Classes, 2)
}

func TestTimetableDocumentMarshalJSON(t *testing.T) {
	document := NewTimetableDocument()

	zebra := newStopSchedule(LabelSet{"WORKDAYS", "NON-WORKING DAYS"})
	zebra.set("WORKDAYS", HourEntry{Hour: 10, Minutes: []int{0}})
	zebra.set("WORKDAYS", HourEntry{Hour: 6, Minutes: []int{5, 20}})
	zebra.set("NON-WORKING DAYS", HourEntry{Hour: 7, Minutes: []int{15}})

	alpha := newStopSchedule(LabelSet{"WORKDAYS", "NON-WORKING DAYS"})

	document.Set("Zebra", zebra)
	document.Set("Alpha", alpha)

	output, err := json.Marshal(document)
	require.NoError(t, err)

	assert.Equal(t,
		`{"Zebra":{"WORKDAYS":{"6":[5,20],"10":[0]},"NON-WORKING DAYS":{"7":[15]}},"Alpha":{"WORKDAYS":{},"NON-WORKING DAYS":{}}}`,
		string(output),
	)
	assert.Equal(t, 4, zebra.Departures())
}
