package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StopTimetablesCollection  = "stop_timetables"
	DatasetVersionsCollection = "dataset_versions"
)

func createIndexes() {
	createStopTimetablesIndexes()
	createDatasetVersionsIndexes()
}

func createStopTimetablesIndexes() {
	stopTimetablesCollection := GetCollection(StopTimetablesCollection)

	_, err := stopTimetablesCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "primaryidentifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "documentref", Value: 1},
				{Key: "position", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "datasource.datasetid", Value: 1},
				{Key: "datasource.documentid", Value: 1},
				{Key: "datasource.timestamp", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "stopname", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createDatasetVersionsIndexes() {
	datasetVersionsCollection := GetCollection(DatasetVersionsCollection)

	_, err := datasetVersionsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "dataset", Value: 1},
				{Key: "identifier", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
