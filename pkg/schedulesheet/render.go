package schedulesheet

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const columnGap = 4

// Render writes the document back out in the column aligned layout the parser reads. Each stop gets its
// name, a header with its labels, a sub-header with one marker per label and one row per hour.
func Render(writer io.Writer, document *TimetableDocument, catalog Catalog) error {
	buffered := bufio.NewWriter(writer)

	for i, stop := range document.Stops {
		if stop.Schedule == nil {
			continue
		}

		name := stop.Name
		if i > 0 {
			name = string(PageBreak) + name
		}

		lines := append([]string{name}, renderStop(stop.Schedule, catalog.MarkerToken)...)
		for _, line := range lines {
			if _, err := fmt.Fprintln(buffered, line); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(buffered, string(PageBreak)); err != nil {
		return err
	}

	return buffered.Flush()
}

func renderStop(schedule *StopSchedule, marker string) []string {
	hourSet := map[int]struct{}{}
	cells := make([]map[int]string, len(schedule.Labels))
	widths := make([]int, len(schedule.Labels))

	for i, label := range schedule.Labels {
		cells[i] = map[int]string{}
		widths[i] = len(marker)

		for hour, minutes := range schedule.Classes[label] {
			hourSet[hour] = struct{}{}

			cell := renderCell(hour, minutes)
			cells[i][hour] = cell
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}

		widths[i] += columnGap
	}

	hours := maps.Keys(hourSet)
	slices.Sort(hours)

	lines := []string{
		strings.Join(schedule.Labels, strings.Repeat(" ", columnGap)),
		renderRow(widths, func(int) string { return marker }),
	}

	for _, hour := range hours {
		lines = append(lines, renderRow(widths, func(column int) string { return cells[column][hour] }))
	}

	return lines
}

func renderCell(hour int, minutes []int) string {
	parts := make([]string, 0, len(minutes)+1)
	parts = append(parts, strconv.Itoa(hour))

	for _, minute := range minutes {
		parts = append(parts, fmt.Sprintf("%02d", minute))
	}

	return strings.Join(parts, " ")
}

func renderRow(widths []int, cell func(column int) string) string {
	var row strings.Builder

	for column, width := range widths {
		text := cell(column)
		row.WriteString(text)

		if column < len(widths)-1 {
			row.WriteString(strings.Repeat(" ", width-len(text)))
		}
	}

	return strings.TrimRight(row.String(), " ")
}
