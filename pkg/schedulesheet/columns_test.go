package schedulesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns(t *testing.T) {
	labelSet := LabelSet{"WORKDAYS", "NON-WORKING DAYS"}

	columns, err := ResolveColumns(labelSet, "          HOUR                HOUR  MINUTES", "HOUR")
	require.NoError(t, err)
	assert.Equal(t, []ColumnSpan{
		{Label: "WORKDAYS", Start: 10},
		{Label: "NON-WORKING DAYS", Start: 30},
	}, columns)

	columns, err = ResolveColumns(labelSet, "HOURHOUR", "HOUR")
	require.NoError(t, err)
	assert.Equal(t, 0, columns[0].Start)
	assert.Equal(t, 4, columns[1].Start)

	_, err = ResolveColumns(labelSet, "   HOUR   ", "HOUR")
	assert.ErrorIs(t, err, ErrMalformedSubHeader)

	_, err = ResolveColumns(labelSet, "HOUR HOUR", "")
	assert.ErrorIs(t, err, ErrMalformedSubHeader)
}

func TestColumnSlice(t *testing.T) {
	columns := []ColumnSpan{{Label: "A", Start: 2}, {Label: "B", Start: 8}}

	assert.Equal(t, "6 05  ", columnSlice("  6 05  7 10", columns, 0))
	assert.Equal(t, "7 10", columnSlice("  6 05  7 10", columns, 1))
	assert.Equal(t, "6 0", columnSlice("  6 0", columns, 0))
	assert.Equal(t, "", columnSlice("  6 0", columns, 1))
	assert.Equal(t, "", columnSlice("", columns, 0))
}
