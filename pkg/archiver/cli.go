package archiver

import (
	"github.com/travigo/timetable-sheets/pkg/database"
	"github.com/travigo/timetable-sheets/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "archiver",
		Usage: "Snapshot the imported stop timetables into a tar.xz bundle",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "write a bundle now",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output-directory",
						Usage: "Directory the bundle is written to",
						Value: ".",
					},
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Only archive this dataset",
					},
					&cli.BoolFlag{
						Name:  "cloud-upload",
						Usage: "Upload the bundle to the TRAVIGO_ARCHIVE_BUCKET cloud storage bucket",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					archiver := &Archiver{
						OutputDirectory: c.String("output-directory"),
						Dataset:         c.String("dataset"),
						CloudUpload:     c.Bool("cloud-upload"),
						CloudBucketName: util.GetEnvironmentVariables()["TRAVIGO_ARCHIVE_BUCKET"],
					}

					if archiver.CloudUpload && archiver.CloudBucketName == "" {
						return cli.Exit("TRAVIGO_ARCHIVE_BUCKET must be set to upload bundles", 1)
					}

					_, err := archiver.Perform(c.Context)
					return err
				},
			},
		},
	}
}
