package api

import (
	"github.com/travigo/timetable-sheets/pkg/api/routes"
	"github.com/travigo/timetable-sheets/pkg/database"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/manager"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Serves the imported stop timetables",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					return SetupServer(c.String("listen"), &routes.MongoStore{}, manager.GetRegisteredDataSets())
				},
			},
		},
	}
}
