package manager

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/schedulesheet"
)

// ParseDocument parses an already rendered sheet without touching any storage
func ParseDocument(catalog schedulesheet.Catalog, reader io.Reader) (*schedulesheet.TimetableDocument, *schedulesheet.Diagnostics) {
	parser := schedulesheet.NewParser(catalog, schedulesheet.WithLogger(log.Logger))

	document, diagnostics := parser.ParseReader(reader)
	recordDiagnostics("offline", diagnostics)

	return document, diagnostics
}
