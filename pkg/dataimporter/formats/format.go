package formats

import (
	"io"

	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"github.com/travigo/timetable-sheets/pkg/schedulesheet"
)

type Format interface {
	ParseFile(io.Reader) error
	Import(datasets.DataSet, *ctdf.DataSourceReference) error
}

// StopTimetableFormat is a format producing stop timetables, exposing what it imported for indexing and metrics
type StopTimetableFormat interface {
	Format
	StopTimetables() []*ctdf.StopTimetable
	Diagnostics() *schedulesheet.Diagnostics
}
