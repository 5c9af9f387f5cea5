package transforms

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const TransformsDirectory = "data/transforms/"

var transforms []*TransformDefinition

// SetupClient loads every transform definition in the directory, a missing directory means no transforms
func SetupClient(directory string) error {
	loaded, err := LoadTransforms(directory)
	if err != nil {
		return err
	}

	transforms = loaded
	log.Info().Int("transforms", len(transforms)).Msg("Loaded transforms")

	return nil
}

func LoadTransforms(directory string) ([]*TransformDefinition, error) {
	var loaded []*TransformDefinition

	if _, err := os.Stat(directory); errors.Is(err, os.ErrNotExist) {
		return loaded, nil
	}

	err := filepath.Walk(directory,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || filepath.Ext(path) != ".yaml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading transforms file")

			transformYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			decoder := yaml.NewDecoder(bytes.NewReader(transformYaml))

			for {
				var transform TransformDefinition
				err := decoder.Decode(&transform)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				if transform.Type == "" || len(transform.Match) == 0 || len(transform.Data) == 0 {
					return fmt.Errorf("%s: transform needs a type, match and data", path)
				}

				loaded = append(loaded, &transform)
			}

			return nil
		})
	if err != nil {
		return nil, err
	}

	return loaded, nil
}
