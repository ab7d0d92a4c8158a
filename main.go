package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/airq/cmd"
	"github.com/anicoll/airq/internal/pkg/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	app := &cli.App{
		Name:  "airq",
		Usage: "GraphQL API for indoor air quality sensors",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env-file",
				EnvVars: []string{"ENV_FILE"},
				Value:   cli.NewStringSlice(".env"),
				Usage:   "dotenv files loaded before the environment is parsed",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the GraphQL API",
				Action: cmd.ServeCommand,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations",
				Action: cmd.MigrateCommand,
			},
			{
				Name:   "seed",
				Usage:  "fill the database with synthetic data",
				Action: cmd.SeedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "sensors",
						EnvVars: []string{"SEED_SENSORS"},
						Value:   defaults.Sensors,
					},
					&cli.IntFlag{
						Name:    "locations",
						EnvVars: []string{"SEED_LOCATIONS"},
						Value:   defaults.Locations,
					},
					&cli.IntFlag{
						Name:    "readings",
						EnvVars: []string{"SEED_READINGS_PER_SENSOR"},
						Value:   defaults.ReadingsPerSensor,
						Usage:   "readings per sensor",
					},
					&cli.BoolFlag{
						Name:    "reset",
						EnvVars: []string{"SEED_RESET"},
						Value:   defaults.Reset,
						Usage:   "truncate every table first",
					},
					&cli.Uint64Flag{
						Name:    "seed",
						EnvVars: []string{"SEED_RANDOM_SEED"},
						Usage:   "random seed, 0 picks one",
					},
				},
			},
			{
				Name:   "simulate",
				Usage:  "record synthetic readings for active sensors",
				Action: cmd.SimulateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "schedule",
						Usage: "cron schedule, overrides SIMULATOR_SCHEDULE",
					},
					&cli.BoolFlag{
						Name:  "once",
						Usage: "record a single round and exit",
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "random seed, 0 picks one",
					},
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
