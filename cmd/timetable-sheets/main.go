package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/api"
	"github.com/travigo/timetable-sheets/pkg/archiver"
	"github.com/travigo/timetable-sheets/pkg/consumer"
	"github.com/travigo/timetable-sheets/pkg/dataimporter"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRAVIGO_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRAVIGO_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "timetable-sheets",
		Description: "Imports printed stop timetable sheets and serves them as stop timetables",

		Commands: []*cli.Command{
			dataimporter.RegisterCLI(),
			consumer.RegisterCLI(),
			api.RegisterCLI(),
			archiver.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
