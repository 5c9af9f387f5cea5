package dataimporter

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/listing"
)

func TestRepeatInterval(t *testing.T) {
	dataset := &datasets.DataSet{Identifier: "ro-ratt-timetables"}

	interval, err := repeatInterval("", dataset)
	assert.NoError(t, err)
	assert.Zero(t, interval)

	interval, err = repeatInterval("90m", dataset)
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Minute, interval)

	_, err = repeatInterval("dataset", dataset)
	assert.Error(t, err)

	dataset.RefreshInterval = "PT6H"
	interval, err = repeatInterval("dataset", dataset)
	assert.NoError(t, err)
	assert.Equal(t, 6*time.Hour, interval)

	_, err = repeatInterval("often", dataset)
	assert.Error(t, err)
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestListingChanged(t *testing.T) {
	report := listing.Report{
		Comparisons: []listing.Difference{
			{Left: "published", Right: "known", LeftOnly: []string{"14.pdf"}},
		},
		Changed: true,
	}

	var output bytes.Buffer
	err := listingChanged(&output, report)
	assert.Equal(t, ErrListingChanged, err)
	assert.Contains(t, output.String(), "published unique: 14.pdf")

	closed := errors.New("stderr closed")
	err = listingChanged(failingWriter{err: closed}, report)
	assert.ErrorIs(t, err, ErrListingChanged)
	assert.ErrorIs(t, err, closed)
}
