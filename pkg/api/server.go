package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/travigo/timetable-sheets/pkg/api/routes"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/datasets"
)

func NewApp(store routes.Store, registered []datasets.DataSet) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger("/metrics"))

	webApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopTimetablesRouter(group.Group("/stop_timetables"), store)
	routes.DatasetsRouter(group.Group("/datasets"), registered, store)

	return webApp
}

func SetupServer(listen string, store routes.Store, registered []datasets.DataSet) error {
	return NewApp(store, registered).Listen(listen)
}
