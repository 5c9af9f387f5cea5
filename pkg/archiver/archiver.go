// Package archiver snapshots the imported stop timetables into a compressed bundle, one JSON file per document
package archiver

import (
	"archive/tar"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/database"
	"github.com/ulikunitz/xz"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Archiver struct {
	OutputDirectory string
	// Limits the snapshot to one dataset, every dataset when empty
	Dataset string

	CloudUpload     bool
	CloudBucketName string
}

// Perform writes the bundle and returns its path
func (a *Archiver) Perform(ctx context.Context) (string, error) {
	log.Info().Interface("archiver", a).Msg("Running Archive process")

	currentTime := time.Now()

	documents, err := a.loadDocuments(ctx)
	if err != nil {
		return "", err
	}

	bundleName := a.bundleFilename(currentTime)
	bundlePath := path.Join(a.OutputDirectory, bundleName)

	if err := writeBundleFile(bundlePath, documents, currentTime); err != nil {
		return "", err
	}

	log.Info().Int("documents", len(documents)).Str("bundle", bundlePath).Msg("Archive bundle generation complete")

	if a.CloudUpload {
		if err := a.uploadToStorage(ctx, bundlePath, bundleName); err != nil {
			return "", err
		}
	}

	return bundlePath, nil
}

// writeBundleFile writes the bundle to disk and only returns once the file is closed, so the result is
// complete before it gets uploaded
func writeBundleFile(bundlePath string, documents map[string][]*ctdf.StopTimetable, modTime time.Time) error {
	bundleFile, err := os.Create(bundlePath)
	if err != nil {
		return err
	}

	if err := WriteBundle(bundleFile, documents, modTime); err != nil {
		bundleFile.Close()
		return err
	}

	if err := bundleFile.Close(); err != nil {
		return fmt.Errorf("closing bundle %s: %w", bundlePath, err)
	}

	return nil
}

func (a *Archiver) bundleFilename(currentTime time.Time) string {
	prefix := "stop-timetables"
	if a.Dataset != "" {
		prefix = a.Dataset
	}

	return fmt.Sprintf("%s-%s.tar.xz", prefix, currentTime.UTC().Format("20060102T150405Z"))
}

// loadDocuments groups every stored stop timetable by dataset and document, keeping sheet order
func (a *Archiver) loadDocuments(ctx context.Context) (map[string][]*ctdf.StopTimetable, error) {
	filter := bson.M{}
	if a.Dataset != "" {
		filter["datasource.datasetid"] = a.Dataset
	}

	opts := options.Find().SetSort(bson.D{{Key: "documentref", Value: 1}, {Key: "position", Value: 1}})

	cursor, err := database.GetCollection(database.StopTimetablesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	documents := map[string][]*ctdf.StopTimetable{}
	for cursor.Next(ctx) {
		var stopTimetable *ctdf.StopTimetable
		if err := cursor.Decode(&stopTimetable); err != nil {
			log.Error().Err(err).Msg("Failed to decode StopTimetable")
			continue
		}

		key := documentKey(stopTimetable)
		documents[key] = append(documents[key], stopTimetable)
	}

	return documents, cursor.Err()
}

func documentKey(stopTimetable *ctdf.StopTimetable) string {
	dataset := "unknown"
	if stopTimetable.DataSource != nil && stopTimetable.DataSource.DatasetID != "" {
		dataset = stopTimetable.DataSource.DatasetID
	}

	return path.Join(dataset, strings.ReplaceAll(stopTimetable.DocumentRef, "/", "_"))
}

// WriteBundle writes a tar.xz archive holding a <dataset>/<document>.json entry per document
func WriteBundle(writer io.Writer, documents map[string][]*ctdf.StopTimetable, modTime time.Time) error {
	xzWriter, err := xz.NewWriter(writer)
	if err != nil {
		return err
	}
	tarWriter := tar.NewWriter(xzWriter)

	keys := make([]string, 0, len(documents))
	for key := range documents {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		documentJSON, err := json.Marshal(documents[key])
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}

		filename := fmt.Sprintf("%s.json", key)
		header, err := tar.FileInfoHeader(MemoryFileInfo{
			EntryName:    filename,
			EntrySize:    int64(len(documentJSON)),
			EntryMode:    0o644,
			EntryModTime: modTime,
		}, "")
		if err != nil {
			return err
		}
		header.Name = filename

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if _, err := tarWriter.Write(documentJSON); err != nil {
			return err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}

	return xzWriter.Close()
}

func (a *Archiver) uploadToStorage(ctx context.Context, bundlePath string, objectName string) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	object := client.Bucket(a.CloudBucketName).Object(objectName)

	reader, err := os.Open(bundlePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	writer := object.NewWriter(ctx)
	if _, err := io.Copy(writer, reader); err != nil {
		writer.Close()
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("write %s to bucket %s: %w", objectName, a.CloudBucketName, err)
	}

	log.Info().Msgf("Written file %s to bucket %s", object.ObjectName(), object.BucketName())

	return nil
}
