package manager

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
	"gopkg.in/yaml.v3"
)

const DataSourcesDirectory = "data/datasources/"

var validate = validator.New()

func GetRegisteredDataSets() []datasets.DataSet {
	registeredDatasets, err := LoadDataSets(DataSourcesDirectory)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load datasources directory")
	}

	return registeredDatasets
}

func GetDataset(identifier string) (datasets.DataSet, error) {
	registered := GetRegisteredDataSets()

	for _, dataset := range registered {
		if dataset.Identifier == identifier {
			return dataset, nil
		}
	}

	return datasets.DataSet{}, fmt.Errorf("dataset %s could not be found", identifier)
}

// LoadDataSets reads every datasource YAML file in the directory. A file may hold several datasources as
// separate YAML documents. Dataset identifiers are prefixed with their datasource identifier.
func LoadDataSets(directory string) ([]datasets.DataSet, error) {
	var registeredDatasets []datasets.DataSet

	err := filepath.Walk(directory,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || filepath.Ext(path) != ".yaml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading datasource file")

			datasourceYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			decoder := yaml.NewDecoder(bytes.NewReader(datasourceYaml))

			for {
				var datasource datasets.DataSource
				err := decoder.Decode(&datasource)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				if err := validateDataSource(&datasource); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				for _, dataset := range datasource.Datasets {
					dataset.Identifier = fmt.Sprintf("%s-%s", datasource.Identifier, dataset.Identifier)
					dataset.DataSourceRef = datasource.Identifier
					dataset.Provider = datasource.Provider

					registeredDatasets = append(registeredDatasets, dataset)
				}
			}

			return nil
		})
	if err != nil {
		return nil, err
	}

	return registeredDatasets, nil
}

func validateDataSource(datasource *datasets.DataSource) error {
	if err := validate.Struct(datasource); err != nil {
		return err
	}

	for _, dataset := range datasource.Datasets {
		if dataset.Catalog != nil {
			if err := validate.Struct(dataset.Catalog); err != nil {
				return fmt.Errorf("dataset %s catalog: %w", dataset.Identifier, err)
			}
		}

		if _, err := dataset.GetRefreshInterval(); err != nil {
			return fmt.Errorf("dataset %s: %w", dataset.Identifier, err)
		}
	}

	return nil
}
