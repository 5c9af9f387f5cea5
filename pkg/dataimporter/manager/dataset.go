package manager

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/timetable-sheets/pkg/ctdf"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/fetcher"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/formats"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/formats/stopsheet"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/renderer"
	"github.com/travigo/timetable-sheets/pkg/util"
)

const defaultConcurrency = 4

type FormatFactory func(dataset *datasets.DataSet, document string) (formats.StopTimetableFormat, error)

type Importer struct {
	Fetcher   *fetcher.Fetcher
	Renderer  renderer.Renderer
	TextCache *TextCache
	Versions  VersionStore
	NewFormat FormatFactory

	Concurrency int
}

func NewImporter() *Importer {
	return &Importer{
		Fetcher:     fetcher.NewFetcher(),
		Renderer:    renderer.NewPDFToText(),
		TextCache:   NewTextCache(),
		Versions:    &MongoVersionStore{},
		NewFormat:   newStopSheetFormat,
		Concurrency: util.GetEnvironmentInt("TRAVIGO_IMPORT_CONCURRENCY", defaultConcurrency),
	}
}

func newStopSheetFormat(dataset *datasets.DataSet, document string) (formats.StopTimetableFormat, error) {
	switch dataset.Format {
	case datasets.DataSetFormatScheduleSheet:
		return stopsheet.NewStopSheet(document, dataset.GetCatalog()), nil
	default:
		return nil, fmt.Errorf("unsupported format %s", dataset.Format)
	}
}

type DocumentResult struct {
	Document string

	Stops       int
	Skipped     int
	NotModified bool

	Err error
}

type ImportReport struct {
	Dataset string
	Results []*DocumentResult
}

func (r *ImportReport) Failed() []*DocumentResult {
	var failed []*DocumentResult
	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}

	return failed
}

// ImportDataset imports every document of the dataset that is not ignored. A failing document never stops
// the others, failures are collected in the report.
func (i *Importer) ImportDataset(ctx context.Context, dataset *datasets.DataSet, force bool) (*ImportReport, error) {
	documents, err := dataset.FilterDocuments()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("dataset", dataset.Identifier).
		Int("documents", len(documents)).
		Int("ignored", len(dataset.Documents)-len(documents)).
		Msg("Importing dataset")

	concurrency := i.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	p := pool.NewWithResults[*DocumentResult]().WithMaxGoroutines(concurrency)
	for _, document := range documents {
		document := document
		p.Go(func() *DocumentResult {
			return i.ImportDocument(ctx, dataset, document, force)
		})
	}
	results := p.Wait()

	slices.SortFunc(results, func(a, b *DocumentResult) int {
		return strings.Compare(a.Document, b.Document)
	})

	report := &ImportReport{
		Dataset: dataset.Identifier,
		Results: results,
	}

	log.Info().
		Str("dataset", dataset.Identifier).
		Int("documents", len(results)).
		Int("failed", len(report.Failed())).
		Msg("Dataset import complete")

	return report, nil
}

func (i *Importer) ImportDocument(ctx context.Context, dataset *datasets.DataSet, document string, force bool) *DocumentResult {
	result := &DocumentResult{Document: document}
	logger := log.With().Str("dataset", dataset.Identifier).Str("document", document).Logger()

	result.Err = i.importDocument(ctx, dataset, document, force, result)

	outcome := "imported"
	switch {
	case result.Err != nil:
		outcome = "failed"
		logger.Error().Err(result.Err).Msg("Failed to import document")
	case result.NotModified:
		outcome = "not_modified"
		logger.Info().Msg("Document not modified since last import")
	default:
		logger.Info().Int("stops", result.Stops).Int("skipped", result.Skipped).Msg("Imported document")
	}
	documentsImported.With(prometheus.Labels{"dataset": dataset.Identifier, "result": outcome}).Inc()

	return result
}

func (i *Importer) importDocument(ctx context.Context, dataset *datasets.DataSet, document string, force bool, result *DocumentResult) error {
	previous, err := i.Versions.Get(ctx, dataset.Identifier, document)
	if err != nil {
		return fmt.Errorf("load version: %w", err)
	}

	conditionalOn := previous
	if force {
		conditionalOn = nil
	}

	fetched, err := i.Fetcher.Fetch(ctx, dataset.DocumentURL(document), conditionalOn)
	if err != nil {
		return err
	}

	if !force && (fetched.NotModified || previous.Matches(fetched.Hash, fetched.ETag, fetched.LastModified)) {
		result.NotModified = true
		return nil
	}

	text, err := i.renderText(ctx, document, fetched)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	format, err := i.NewFormat(dataset, document)
	if err != nil {
		return err
	}

	err = format.ParseFile(bytes.NewReader(text))
	if diagnostics := format.Diagnostics(); diagnostics != nil {
		result.Stops = diagnostics.Stops
		result.Skipped = len(diagnostics.SkippedStops)
		recordDiagnostics(dataset.Identifier, diagnostics)
	}
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	now := time.Now()
	datasource := &ctdf.DataSourceReference{
		OriginalFormat: string(dataset.Format),
		ProviderName:   dataset.Provider.Name,
		DatasetID:      dataset.Identifier,
		DocumentID:     document,
		Timestamp:      fmt.Sprintf("%d", now.Unix()),
	}

	if err := format.Import(*dataset, datasource); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	indexStopTimetables(format.StopTimetables())

	return i.Versions.Put(ctx, &ctdf.DatasetVersion{
		Dataset:      dataset.Identifier,
		Identifier:   document,
		Hash:         fetched.Hash,
		ETag:         fetched.ETag,
		LastModified: fetched.LastModified,
		ImportedAt:   now,
	})
}

// renderText turns the fetched document into layout text, documents that are already text are used as is
func (i *Importer) renderText(ctx context.Context, document string, fetched *fetcher.Document) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(document), ".txt") {
		return fetched.Body, nil
	}

	if text, ok := i.TextCache.Get(ctx, fetched.Hash); ok {
		return text, nil
	}

	text, err := i.Renderer.Render(ctx, fetched.Body)
	if err != nil {
		return nil, err
	}

	if err := i.TextCache.Set(ctx, fetched.Hash, text); err != nil {
		log.Warn().Err(err).Str("document", document).Msg("Failed to cache rendered text")
	}

	return text, nil
}
