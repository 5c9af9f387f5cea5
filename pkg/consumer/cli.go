package consumer

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/database"
	"github.com/travigo/timetable-sheets/pkg/dataimporter/manager"
	"github.com/travigo/timetable-sheets/pkg/elastic_client"
	"github.com/travigo/timetable-sheets/pkg/redis_client"
	"github.com/travigo/timetable-sheets/pkg/transforms"
	"github.com/travigo/timetable-sheets/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "consumer",
		Usage: "Import queued schedule sheet documents",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the document consumers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stats-listen",
						Usage: "Listen address of the queue stats server",
						Value: defaultStatsListen,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						log.Warn().Err(err).Msg("Elasticsearch unavailable, stop timetables will not be indexed")
					}

					if err := transforms.SetupClient(transforms.TransformsDirectory); err != nil {
						return err
					}

					redisConsumer := RedisConsumer{
						QueueName:       manager.DocumentsQueue,
						NumberConsumers: util.GetEnvironmentInt("TRAVIGO_CONSUMER_COUNT", 2),
						BatchSize:       5,
						Timeout:         2 * time.Second,
						Consumer:        manager.NewDocumentBatchConsumer(),
						StatsListen:     c.String("stats-listen"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
		},
	}
}
