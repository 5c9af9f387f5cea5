package dataimporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/database"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/export"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/fetcher"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/listing"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/manager"
	"github.com/travigo/timetable-sheets/pkg/elastic_client"
	"github.com/travigo/timetable-sheets/pkg/redis_client"
	"github.com/travigo/timetable-sheets/pkg/schedulesheet"
	"github.com/travigo/timetable-sheets/pkg/transforms"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

var ErrListingChanged = errors.New("published documents differ from the known documents")

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Download, render & parse schedule sheet datasets",
		Subcommands: []*cli.Command{
			{
				Name:  "dataset",
				Usage: "Import a dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the dataset",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "repeat-every",
						Usage: "Repeat the import with this interval, e.g. 6h. Defaults to the dataset refresh interval when set to 'dataset'",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Import every document even if it has not changed",
					},
					&cli.BoolFlag{
						Name:  "reconcile",
						Usage: "Check the listing pages first and stop if the published documents changed",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Warn().Err(err).Msg("Redis unavailable, rendered text will not be cached")
					}
					if err := elastic_client.Connect(false); err != nil {
						log.Warn().Err(err).Msg("Elasticsearch unavailable, stop timetables will not be indexed")
					}

					if err := transforms.SetupClient(transforms.TransformsDirectory); err != nil {
						return err
					}

					dataset, err := manager.GetDataset(c.String("id"))
					if err != nil {
						return err
					}
					if dataset.ImportDestination == datasets.ImportDestinationQueue && !redis_client.Connected() {
						return fmt.Errorf("dataset %s imports through the queue: %w", dataset.Identifier, manager.ErrQueueUnavailable)
					}

					repeatDuration, err := repeatInterval(c.String("repeat-every"), &dataset)
					if err != nil {
						return err
					}

					importer := manager.NewImporter()

					for {
						startTime := time.Now()

						if err := importDataset(c.Context, importer, &dataset, c.Bool("force"), c.Bool("reconcile")); err != nil {
							return err
						}

						if repeatDuration == 0 {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						waitTime := repeatDuration - executionDuration

						if waitTime.Seconds() > 0 {
							time.Sleep(waitTime)
						}
					}

					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "queue",
				Usage: "Queue every document of a dataset for the consumers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the dataset",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Import every document even if it has not changed",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					dataset, err := manager.GetDataset(c.String("id"))
					if err != nil {
						return err
					}

					_, err = manager.EnqueueDataset(&dataset, c.Bool("force"))
					return err
				},
			},
			{
				Name:  "reconcile",
				Usage: "Compare the documents published on the listing pages with the known documents",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the dataset",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					dataset, err := manager.GetDataset(c.String("id"))
					if err != nil {
						return err
					}

					report, err := listing.Reconcile(c.Context, fetcher.NewFetcher().Client(), dataset)
					if err != nil {
						return err
					}

					if err := report.Write(os.Stdout); err != nil {
						return err
					}

					if report.Changed {
						return cli.Exit(ErrListingChanged.Error(), 1)
					}

					return nil
				},
			},
			{
				Name:  "parse",
				Usage: "Parse a rendered sheet and print the result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path of the layout text, - for stdin",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Parse with the catalog of this dataset instead of the default one",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output format: json, csv, pretty or text",
						Value: string(export.OutputJSON),
					},
				},
				Action: func(c *cli.Context) error {
					output := export.OutputFormat(c.String("output"))
					if !slices.Contains(export.OutputFormats, output) {
						return fmt.Errorf("unknown output format %q", output)
					}

					catalog := schedulesheet.DefaultCatalog()
					if datasetID := c.String("dataset"); datasetID != "" {
						dataset, err := manager.GetDataset(datasetID)
						if err != nil {
							return err
						}

						catalog = dataset.GetCatalog()
					}

					input := os.Stdin
					if path := c.String("file"); path != "-" {
						file, err := os.Open(path)
						if err != nil {
							return err
						}
						defer file.Close()

						input = file
					}

					document, diagnostics := manager.ParseDocument(catalog, input)
					if diagnostics.ReadError != nil {
						return diagnostics.ReadError
					}

					log.Info().
						Int("stops", diagnostics.Stops).
						Int("skipped", len(diagnostics.SkippedStops)).
						Int("droppedTokens", diagnostics.DroppedTokens).
						Int("spamLines", diagnostics.SpamLines).
						Msg("Parsed document")

					return export.Write(os.Stdout, document, catalog, output)
				},
			},
		},
	}
}

func repeatInterval(flag string, dataset *datasets.DataSet) (time.Duration, error) {
	switch flag {
	case "":
		return 0, nil
	case "dataset":
		interval, err := dataset.GetRefreshInterval()
		if err != nil {
			return 0, err
		}
		if interval == 0 {
			return 0, fmt.Errorf("dataset %s has no refresh interval", dataset.Identifier)
		}

		return interval, nil
	default:
		return time.ParseDuration(flag)
	}
}

func importDataset(ctx context.Context, importer *manager.Importer, dataset *datasets.DataSet, force bool, reconcile bool) error {
	if reconcile && len(dataset.ListingPages) > 0 {
		report, err := listing.Reconcile(ctx, importer.Fetcher.Client(), *dataset)
		if err != nil {
			return err
		}

		if report.Changed {
			return listingChanged(os.Stderr, report)
		}
	}

	if dataset.ImportDestination == datasets.ImportDestinationQueue {
		_, err := manager.EnqueueDataset(dataset, force)
		return err
	}

	report, err := importer.ImportDataset(ctx, dataset, force)
	if err != nil {
		return err
	}

	for _, failed := range report.Failed() {
		log.Error().Err(failed.Err).Str("document", failed.Document).Msg("Document failed to import")
	}

	return nil
}

// listingChanged prints the report of a changed listing and returns ErrListingChanged, joined with the
// write error if the report could not be printed
func listingChanged(writer io.Writer, report listing.Report) error {
	if err := report.Write(writer); err != nil {
		log.Error().Err(err).Msg("Failed to write listing report")
		return errors.Join(ErrListingChanged, err)
	}

	return ErrListingChanged
}
