package main

import (
	"context"
	"log"
	"os"

	"github.com/rxtech-lab/argo-arena/internal/version"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "arena",
		Usage:   "Run a trading tournament between strategy agents",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Start the tournament scheduler and the API server",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "port",
						Usage: "API server port, overrides the config",
					},
					&cli.BoolFlag{
						Name:  "no-server",
						Usage: "Do not start the REST and WebSocket server",
					},
				},
				Action: runAction,
			},
			{
				Name:  "simulate",
				Usage: "Run a fixed number of ticks against a synthetic price and print the leaderboard",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:    "ticks",
						Aliases: []string{"n"},
						Usage:   "Number of ticks to run",
						Value:   100,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Seed of the synthetic price walk, overrides the config",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory, overrides the config",
					},
				},
				Action: simulateAction,
			},
			{
				Name:  "schema",
				Usage: "Write the config JSON schema and a sample config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory to write to",
						Value: "./config",
					},
				},
				Action: schemaAction,
			},
			{
				Name:  "version",
				Usage: "Print the engine version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := cmd.Root().Writer.Write([]byte(version.GetVersion() + "\n"))

					return err
				},
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the YAML config file",
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
