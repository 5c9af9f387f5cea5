package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"github.com/travigo/timetable-sheets/pkg/redis_client"
)

const DocumentsQueue = "schedule-sheet-documents"

var ErrQueueUnavailable = errors.New("redis queue connection is not available")

// DocumentJob asks a consumer to import one document of a dataset
type DocumentJob struct {
	Dataset  string
	Document string
	Force    bool
}

func DecodeDocumentJob(payload string) (*DocumentJob, error) {
	var job DocumentJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, err
	}

	if job.Dataset == "" || job.Document == "" {
		return nil, fmt.Errorf("document job needs both a dataset and a document: %q", payload)
	}

	return &job, nil
}

// EnqueueDataset publishes a job for every document of the dataset that is not ignored
func EnqueueDataset(dataset *datasets.DataSet, force bool) (int, error) {
	if !redis_client.Connected() {
		return 0, ErrQueueUnavailable
	}

	queue, err := redis_client.QueueConnection.OpenQueue(DocumentsQueue)
	if err != nil {
		return 0, err
	}

	return enqueueDataset(queue, dataset, force)
}

func enqueueDataset(queue rmq.Queue, dataset *datasets.DataSet, force bool) (int, error) {
	documents, err := dataset.FilterDocuments()
	if err != nil {
		return 0, err
	}

	payloads := make([]string, 0, len(documents))
	for _, document := range documents {
		payload, err := json.Marshal(DocumentJob{
			Dataset:  dataset.Identifier,
			Document: document,
			Force:    force,
		})
		if err != nil {
			return 0, err
		}

		payloads = append(payloads, string(payload))
	}

	if len(payloads) == 0 {
		return 0, nil
	}

	if err := queue.Publish(payloads...); err != nil {
		return 0, err
	}

	log.Info().Str("dataset", dataset.Identifier).Int("documents", len(payloads)).Msg("Queued dataset documents")

	return len(payloads), nil
}

type DocumentBatchConsumer struct {
	Importer   *Importer
	GetDataset func(identifier string) (datasets.DataSet, error)
}

func NewDocumentBatchConsumer() *DocumentBatchConsumer {
	return &DocumentBatchConsumer{
		Importer:   NewImporter(),
		GetDataset: GetDataset,
	}
}

// Consume imports each job in the batch. Undecodable jobs and jobs for unknown datasets are rejected,
// everything else is acked once attempted since a failed import is retried on the next scheduled run.
func (c *DocumentBatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		job, err := DecodeDocumentJob(delivery.Payload())
		if err != nil {
			log.Error().Err(err).Msg("Failed to decode document job")
			rejectDelivery(delivery)
			continue
		}

		dataset, err := c.GetDataset(job.Dataset)
		if err != nil {
			log.Error().Err(err).Str("dataset", job.Dataset).Msg("Unknown dataset in document job")
			rejectDelivery(delivery)
			continue
		}

		c.Importer.ImportDocument(context.Background(), &dataset, job.Document, job.Force)

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Str("document", job.Document).Msg("Failed to ack document job")
		}
	}
}

func rejectDelivery(delivery rmq.Delivery) {
	if err := delivery.Reject(); err != nil {
		log.Error().Err(err).Msg("Failed to reject document job")
	}
}
