package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
)

func DatasetsRouter(router fiber.Router, registered []datasets.DataSet, store Store) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(registered)
	})
	router.Get("/:identifier", func(c *fiber.Ctx) error {
		dataset := findDataset(registered, c.Params("identifier"))
		if dataset == nil {
			return datasetNotFound(c)
		}

		return c.JSON(dataset)
	})
	router.Get("/:identifier/versions", func(c *fiber.Ctx) error {
		dataset := findDataset(registered, c.Params("identifier"))
		if dataset == nil {
			return datasetNotFound(c)
		}

		versions, err := store.ListDatasetVersions(c.Context(), dataset.Identifier)
		if err != nil {
			log.Error().Err(err).Str("dataset", dataset.Identifier).Msg("Failed to list dataset versions")
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Could not list dataset versions",
			})
		}

		return c.JSON(versions)
	})
}

func findDataset(registered []datasets.DataSet, identifier string) *datasets.DataSet {
	for i := range registered {
		if registered[i].Identifier == identifier {
			return &registered[i]
		}
	}

	return nil
}

func datasetNotFound(c *fiber.Ctx) error {
	c.SendStatus(fiber.StatusNotFound)
	return c.JSON(fiber.Map{
		"error": "Could not find Dataset matching identifier",
	})
}
