package datasets

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/timetable-sheets/pkg/schedulesheet"
)

type DataSet struct {
	Identifier    string        `validate:"required"`
	DataSourceRef string        `json:"-"`
	Format        DataSetFormat `validate:"required,oneof=schedule-sheet"`

	Provider Provider

	// Base URL or local directory the documents are relative to
	Source string `validate:"required"`

	Documents          []string `validate:"required,min=1,dive,required"`
	FrequencyDocuments []string
	BrokenDocuments    []string

	ListingPages []ListingPage `validate:"dive"`

	Catalog *schedulesheet.Catalog `json:"-"`

	RefreshInterval string `json:",omitempty"`
	IgnoreDocuments string `json:"-"`

	ImportDestination ImportDestination `json:"-"`
}

type DataSetFormat string

const (
	DataSetFormatScheduleSheet DataSetFormat = "schedule-sheet"
)

type Provider struct {
	Name    string
	Website string
}

type ListingKind string

const (
	ListingKindAnchors ListingKind = "anchors"
	ListingKindQuoted  ListingKind = "quoted"
)

// ListingPage is a published web page that links to the documents of a dataset
type ListingPage struct {
	URL    string      `validate:"required,url"`
	Kind   ListingKind `validate:"required,oneof=anchors quoted"`
	Prefix string      `validate:"required"`
}

type ImportDestination string

const (
	ImportDestinationDatabase ImportDestination = "database"
	ImportDestinationQueue    ImportDestination = "queue"
)

// GetCatalog returns the dataset's own sheet vocabulary or the default one
func (d *DataSet) GetCatalog() schedulesheet.Catalog {
	if d.Catalog == nil {
		return schedulesheet.DefaultCatalog()
	}

	return *d.Catalog
}

func (d *DataSet) DocumentURL(document string) string {
	if IsURL(d.Source) {
		joined, err := url.JoinPath(d.Source, document)
		if err == nil {
			return joined
		}

		return fmt.Sprintf("%s/%s", strings.TrimSuffix(d.Source, "/"), document)
	}

	return filepath.Join(d.Source, document)
}

// GetRefreshInterval converts the ISO 8601 RefreshInterval into a duration, zero when unset
func (d *DataSet) GetRefreshInterval() (time.Duration, error) {
	if d.RefreshInterval == "" {
		return 0, nil
	}

	interval, err := iso8601.ParseISO8601(d.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("refresh interval %q: %w", d.RefreshInterval, err)
	}

	now := time.Now()
	return interval.Shift(now).Sub(now), nil
}

func IsURL(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}
