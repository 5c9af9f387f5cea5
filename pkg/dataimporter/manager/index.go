package manager

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/elastic_client"
)

const StopTimetablesIndex = "stop-timetables"

type stopTimetableSearchDocument struct {
	PrimaryIdentifier string
	DocumentRef       string
	StopName          string
	Position          int
	Departures        int

	ScheduleClassLabels []string
	Dataset             string

	ModificationDateTime time.Time
}

func newStopTimetableSearchDocument(stopTimetable *ctdf.StopTimetable) (*stopTimetableSearchDocument, error) {
	searchDocument := &stopTimetableSearchDocument{}
	if err := copier.Copy(searchDocument, stopTimetable); err != nil {
		return nil, err
	}

	for _, scheduleClass := range stopTimetable.ScheduleClasses {
		searchDocument.ScheduleClassLabels = append(searchDocument.ScheduleClassLabels, scheduleClass.Label)
	}
	if stopTimetable.DataSource != nil {
		searchDocument.Dataset = stopTimetable.DataSource.DatasetID
	}

	return searchDocument, nil
}

func indexStopTimetables(stopTimetables []*ctdf.StopTimetable) {
	if !elastic_client.Enabled() {
		return
	}

	for _, stopTimetable := range stopTimetables {
		searchDocument, err := newStopTimetableSearchDocument(stopTimetable)
		if err != nil {
			log.Error().Err(err).Str("stop", stopTimetable.PrimaryIdentifier).Msg("Failed to build search document")
			continue
		}

		searchJSON, err := json.Marshal(searchDocument)
		if err != nil {
			log.Error().Err(err).Str("stop", stopTimetable.PrimaryIdentifier).Msg("Failed to marshal search document")
			continue
		}

		elastic_client.IndexRequest(StopTimetablesIndex, stopTimetable.PrimaryIdentifier, bytes.NewReader(searchJSON))
	}
}
