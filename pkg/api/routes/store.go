package routes

import (
	"context"
	"regexp"

	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultListLimit = 100

type StopTimetableFilter struct {
	Dataset  string
	Document string
	// Case insensitive substring of the stop name
	StopName string

	Limit int
}

// Store is what the routes read stop timetables and dataset versions from
type Store interface {
	ListStopTimetables(ctx context.Context, filter StopTimetableFilter) ([]*ctdf.StopTimetable, error)
	GetStopTimetable(ctx context.Context, identifier string) (*ctdf.StopTimetable, error)
	ListDatasetVersions(ctx context.Context, dataset string) ([]*ctdf.DatasetVersion, error)
}

type MongoStore struct{}

func (s *MongoStore) ListStopTimetables(ctx context.Context, filter StopTimetableFilter) ([]*ctdf.StopTimetable, error) {
	query := bson.M{}
	if filter.Dataset != "" {
		query["datasource.datasetid"] = filter.Dataset
	}
	if filter.Document != "" {
		query["documentref"] = filter.Document
	}
	if filter.StopName != "" {
		query["stopname"] = bson.M{"$regex": regexp.QuoteMeta(filter.StopName), "$options": "i"}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "documentref", Value: 1}, {Key: "position", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := database.GetCollection(database.StopTimetablesCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	stopTimetables := []*ctdf.StopTimetable{}
	if err := cursor.All(ctx, &stopTimetables); err != nil {
		return nil, err
	}

	return stopTimetables, nil
}

func (s *MongoStore) GetStopTimetable(ctx context.Context, identifier string) (*ctdf.StopTimetable, error) {
	var stopTimetable *ctdf.StopTimetable

	err := database.GetCollection(database.StopTimetablesCollection).
		FindOne(ctx, bson.M{"primaryidentifier": identifier}).
		Decode(&stopTimetable)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	return stopTimetable, err
}

func (s *MongoStore) ListDatasetVersions(ctx context.Context, dataset string) ([]*ctdf.DatasetVersion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "identifier", Value: 1}})

	cursor, err := database.GetCollection(database.DatasetVersionsCollection).Find(ctx, bson.M{"dataset": dataset}, opts)
	if err != nil {
		return nil, err
	}

	versions := []*ctdf.DatasetVersion{}
	if err := cursor.All(ctx, &versions); err != nil {
		return nil, err
	}

	return versions, nil
}
