package schedulesheet

import (
	"fmt"
	"strings"
)

// ColumnSpan is where a schedule class column starts on every data line of a stop block
type ColumnSpan struct {
	Label string
	Start int
}

// ResolveColumns finds one marker occurrence per label, left to right, each search starting after the
// previous match. Offsets are byte offsets into the sub-header line.
func ResolveColumns(labelSet LabelSet, subHeader string, marker string) ([]ColumnSpan, error) {
	if marker == "" {
		return nil, fmt.Errorf("%w: empty marker token", ErrMalformedSubHeader)
	}

	columns := make([]ColumnSpan, 0, len(labelSet))
	cursor := 0

	for _, label := range labelSet {
		index := strings.Index(subHeader[cursor:], marker)
		if index < 0 {
			return nil, fmt.Errorf("%w: no %q for %q after offset %d", ErrMalformedSubHeader, marker, label, cursor)
		}

		start := cursor + index
		columns = append(columns, ColumnSpan{Label: label, Start: start})

		cursor = start + len(marker)
	}

	return columns, nil
}

// columnSlice cuts the text of column i out of a data line. The last column runs to the end of the line
// and columns starting past the end of a short line are empty.
func columnSlice(line string, columns []ColumnSpan, i int) string {
	start := columns[i].Start
	end := len(line)
	if i+1 < len(columns) && columns[i+1].Start < end {
		end = columns[i+1].Start
	}

	if start >= end {
		return ""
	}

	return line[start:end]
}
