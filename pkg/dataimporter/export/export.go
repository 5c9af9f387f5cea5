// Package export writes parsed timetable documents in the output formats of the command line tools
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/kr/pretty"
	"github.com/travigo/timetable-sheets/pkg/schedulesheet"
)

type OutputFormat string

const (
	OutputJSON   OutputFormat = "json"
	OutputCSV    OutputFormat = "csv"
	OutputPretty OutputFormat = "pretty"
	OutputText   OutputFormat = "text"
)

var OutputFormats = []OutputFormat{OutputJSON, OutputCSV, OutputPretty, OutputText}

// DepartureRow is one departure of a document, flattened for CSV output
type DepartureRow struct {
	Stop          string `csv:"stop"`
	ScheduleClass string `csv:"schedule_class"`
	Hour          int    `csv:"hour"`
	Minute        int    `csv:"minute"`
}

func DepartureRows(document *schedulesheet.TimetableDocument) []*DepartureRow {
	rows := []*DepartureRow{}

	for _, stop := range document.Stops {
		for _, label := range stop.Schedule.Labels {
			table := stop.Schedule.Classes[label]

			for _, hour := range table.Hours() {
				for _, minute := range table[hour] {
					rows = append(rows, &DepartureRow{
						Stop:          stop.Name,
						ScheduleClass: label,
						Hour:          hour,
						Minute:        minute,
					})
				}
			}
		}
	}

	return rows
}

func Write(writer io.Writer, document *schedulesheet.TimetableDocument, catalog schedulesheet.Catalog, format OutputFormat) error {
	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(document)
	case OutputCSV:
		return gocsv.Marshal(DepartureRows(document), writer)
	case OutputPretty:
		_, err := pretty.Fprintf(writer, "%# v\n", document.Stops)
		return err
	case OutputText:
		return schedulesheet.Render(writer, document, catalog)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
