package manager

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/travigo/timetable-sheets/pkg/schedulesheet"
)

var (
	documentsImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_sheets_documents_imported_total",
		Help: "Number of documents processed, by result",
	}, []string{"dataset", "result"})
	stopsParsed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_sheets_stops_parsed_total",
		Help: "Number of stops parsed from sheets",
	}, []string{"dataset"})
	stopsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_sheets_stops_skipped_total",
		Help: "Number of stops left out of a sheet because they could not be parsed",
	}, []string{"dataset", "reason"})
	droppedTokens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_sheets_dropped_tokens_total",
		Help: "Number of hour or minute tokens that were not integers",
	}, []string{"dataset"})
	spamLines = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_sheets_spam_lines_total",
		Help: "Number of boilerplate lines skipped",
	}, []string{"dataset"})
)

func init() {
	prometheus.MustRegister(documentsImported, stopsParsed, stopsSkipped, droppedTokens, spamLines)
}

func recordDiagnostics(dataset string, diagnostics *schedulesheet.Diagnostics) {
	if diagnostics == nil {
		return
	}

	stopsParsed.With(prometheus.Labels{"dataset": dataset}).Add(float64(diagnostics.Stops))
	droppedTokens.With(prometheus.Labels{"dataset": dataset}).Add(float64(diagnostics.DroppedTokens))
	spamLines.With(prometheus.Labels{"dataset": dataset}).Add(float64(diagnostics.SpamLines))

	for _, skipped := range diagnostics.SkippedStops {
		stopsSkipped.With(prometheus.Labels{"dataset": dataset, "reason": skipReason(skipped)}).Inc()
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, schedulesheet.ErrHeaderNotFound):
		return "header_not_found"
	case errors.Is(err, schedulesheet.ErrSubHeaderNotFound):
		return "sub_header_not_found"
	case errors.Is(err, schedulesheet.ErrMalformedSubHeader):
		return "malformed_sub_header"
	default:
		return "other"
	}
}
