package listing

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	resty "gopkg.in/resty.v1"
)

// Reconcile scrapes every listing page of the dataset and compares what is published with the known documents
func Reconcile(ctx context.Context, client *resty.Client, dataset datasets.DataSet) (Report, error) {
	var anchors []string
	var quoted []string

	for _, page := range dataset.ListingPages {
		identifiers, err := Fetch(ctx, client, page)
		if err != nil {
			return Report{}, err
		}

		log.Debug().Str("url", page.URL).Int("documents", len(identifiers)).Msg("Scraped listing page")

		switch page.Kind {
		case datasets.ListingKindAnchors:
			anchors = append(anchors, identifiers...)
		case datasets.ListingKindQuoted:
			quoted = append(quoted, identifiers...)
		}
	}

	report := Compare(dataset, sortedUnique(anchors), sortedUnique(quoted))

	log.Info().
		Str("dataset", dataset.Identifier).
		Int("anchors", len(anchors)).
		Int("quoted", len(quoted)).
		Bool("changed", report.Changed).
		Msg("Reconciled dataset listing")

	return report, nil
}
