// Package stopsheet imports rendered stop timetable sheets as CTDF stop timetables
package stopsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/database"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"github.com/travigo/timetable-sheets/pkg/schedulesheet"
	"github.com/travigo/timetable-sheets/pkg/transforms"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNoStops = errors.New("no stop could be parsed from the document")

const maxBatchSize = 200

type StopSheet struct {
	DocumentID string
	Catalog    schedulesheet.Catalog

	Document *schedulesheet.TimetableDocument

	diagnostics    *schedulesheet.Diagnostics
	stopTimetables []*ctdf.StopTimetable
}

func NewStopSheet(documentID string, catalog schedulesheet.Catalog) *StopSheet {
	return &StopSheet{
		DocumentID: documentID,
		Catalog:    catalog,
	}
}

func (s *StopSheet) ParseFile(reader io.Reader) error {
	parser := schedulesheet.NewParser(s.Catalog, schedulesheet.WithLogger(log.With().Str("document", s.DocumentID).Logger()))

	s.Document, s.diagnostics = parser.ParseReader(reader)

	log.Info().
		Str("document", s.DocumentID).
		Int("stops", s.diagnostics.Stops).
		Int("skipped", len(s.diagnostics.SkippedStops)).
		Int("droppedTokens", s.diagnostics.DroppedTokens).
		Msg("Parsed schedule sheet")

	if s.diagnostics.ReadError != nil {
		return s.diagnostics.ReadError
	}
	if s.Document.Len() == 0 {
		return ErrNoStops
	}

	return nil
}

func (s *StopSheet) Diagnostics() *schedulesheet.Diagnostics {
	return s.diagnostics
}

func (s *StopSheet) StopTimetables() []*ctdf.StopTimetable {
	return s.stopTimetables
}

// ConvertToCTDF turns every parsed stop into a stop timetable record, keeping the sheet's stop order
func (s *StopSheet) ConvertToCTDF(datasetID string, datasource *ctdf.DataSourceReference) []*ctdf.StopTimetable {
	now := time.Now()
	stopTimetables := make([]*ctdf.StopTimetable, 0, s.Document.Len())
	identifiers := make(map[string]struct{}, s.Document.Len())

	for position, stop := range s.Document.Stops {
		stopTimetable := &ctdf.StopTimetable{
			PrimaryIdentifier: uniqueIdentifier(identifiers, ctdf.StopTimetableIdentifier(datasetID, s.DocumentID, stop.Name), position),

			DocumentRef: s.DocumentID,
			StopName:    stop.Name,
			Position:    position,

			Departures: stop.Schedule.Departures(),

			CreationDateTime:     now,
			ModificationDateTime: now,

			DataSource: datasource,
		}

		for _, label := range stop.Schedule.Labels {
			table := stop.Schedule.Classes[label]
			scheduleClass := &ctdf.ScheduleClass{
				Label: label,
				Hours: make([]*ctdf.HourDepartures, 0, len(table)),
			}

			for _, hour := range table.Hours() {
				scheduleClass.Hours = append(scheduleClass.Hours, &ctdf.HourDepartures{
					Hour:    hour,
					Minutes: table[hour],
				})
			}

			stopTimetable.ScheduleClasses = append(stopTimetable.ScheduleClasses, scheduleClass)
		}

		stopTimetables = append(stopTimetables, stopTimetable)
	}

	return stopTimetables
}

// uniqueIdentifier suffixes the sheet position onto identifiers already taken by an earlier stop of the
// same document, so stops whose names slugify the same are stored separately
func uniqueIdentifier(taken map[string]struct{}, identifier string, position int) string {
	candidate := identifier
	for suffix := position; ; suffix++ {
		if _, exists := taken[candidate]; !exists {
			break
		}

		candidate = fmt.Sprintf("%s-%d", identifier, suffix)
	}

	taken[candidate] = struct{}{}

	return candidate
}

func (s *StopSheet) Import(dataset datasets.DataSet, datasource *ctdf.DataSourceReference) error {
	log.Info().Str("document", s.DocumentID).Msg("Converting to CTDF")

	s.stopTimetables = s.ConvertToCTDF(dataset.Identifier, datasource)
	transformed := transforms.Transform(s.stopTimetables)

	log.Info().Msgf(" - %d StopTimetables (%d transformed)", len(s.stopTimetables), transformed)

	stopTimetablesCollection := database.GetCollection(database.StopTimetablesCollection)

	log.Info().Msg("Importing CTDF StopTimetables into Mongo")
	var operationUpsert uint64

	numBatches := int(math.Ceil(float64(len(s.stopTimetables)) / float64(maxBatchSize)))

	for i := 0; i < numBatches; i++ {
		lower := maxBatchSize * i
		upper := maxBatchSize * (i + 1)

		if upper > len(s.stopTimetables) {
			upper = len(s.stopTimetables)
		}

		var operations []mongo.WriteModel

		for _, stopTimetable := range s.stopTimetables[lower:upper] {
			setOnInsert := bson.M{"creationdatetime": stopTimetable.CreationDateTime}

			update := bson.M{
				"$set": bson.M{
					"primaryidentifier":    stopTimetable.PrimaryIdentifier,
					"documentref":          stopTimetable.DocumentRef,
					"stopname":             stopTimetable.StopName,
					"position":             stopTimetable.Position,
					"scheduleclasses":      stopTimetable.ScheduleClasses,
					"departures":           stopTimetable.Departures,
					"modificationdatetime": stopTimetable.ModificationDateTime,
					"datasource":           stopTimetable.DataSource,
				},
				"$setOnInsert": setOnInsert,
			}

			updateModel := mongo.NewUpdateOneModel()
			updateModel.SetFilter(bson.M{"primaryidentifier": stopTimetable.PrimaryIdentifier})
			updateModel.SetUpdate(update)
			updateModel.SetUpsert(true)

			operations = append(operations, updateModel)
			operationUpsert += 1
		}

		if len(operations) > 0 {
			_, err := stopTimetablesCollection.BulkWrite(context.Background(), operations, &options.BulkWriteOptions{})
			if err != nil {
				return err
			}
		}
	}

	// Stops that disappeared from the sheet since the last import
	deleted, err := stopTimetablesCollection.DeleteMany(context.Background(), bson.M{
		"datasource.datasetid":  datasource.DatasetID,
		"datasource.documentid": datasource.DocumentID,
		"datasource.timestamp":  bson.M{"$ne": datasource.Timestamp},
	})
	if err != nil {
		return err
	}

	log.Info().Msg(" - Written to MongoDB")
	log.Info().Msgf(" - %d upserts", operationUpsert)
	log.Info().Msgf(" - %d stale removed", deleted.DeletedCount)

	return nil
}
