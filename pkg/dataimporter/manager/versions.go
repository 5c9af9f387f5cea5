package manager

import (
	"context"
	"errors"

	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VersionStore remembers the last imported revision of every document
type VersionStore interface {
	Get(ctx context.Context, dataset string, document string) (*ctdf.DatasetVersion, error)
	Put(ctx context.Context, version *ctdf.DatasetVersion) error
}

type MongoVersionStore struct{}

func (s *MongoVersionStore) Get(ctx context.Context, dataset string, document string) (*ctdf.DatasetVersion, error) {
	collection := database.GetCollection(database.DatasetVersionsCollection)

	var version *ctdf.DatasetVersion
	err := collection.FindOne(ctx, bson.M{"dataset": dataset, "identifier": document}).Decode(&version)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return version, nil
}

func (s *MongoVersionStore) Put(ctx context.Context, version *ctdf.DatasetVersion) error {
	collection := database.GetCollection(database.DatasetVersionsCollection)

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx,
		bson.M{"dataset": version.Dataset, "identifier": version.Identifier},
		bson.M{"$set": version},
		opts,
	)

	return err
}
