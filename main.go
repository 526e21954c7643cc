// Command go-ca runs a generalized Game of Life on a toroidal grid.
//
// Subcommands:
//
//	run   animate a grid in the terminal, one frame per generation
//	step  advance a snapshot file n generations and write the result
//	show  print a snapshot file with its dimensions and population
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/sheikhrachel/go-ca/rules"
)

const (
	AppName = "go-ca"
	Version = "1.0.0"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "toroidal cellular automaton with a configurable survival/birth rule",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "JSON configuration file",
				Sources: cli.EnvVars("GOCA_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "rule",
				Usage: "rule as max-survivors,min-survivors,birth-count",
				Value: rules.Conway.String(),
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "goroutines per step (0 = one per CPU)",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "animate a grid in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Usage: "snapshot file for the initial grid"},
					&cli.IntFlag{Name: "rows", Usage: "rows of a generated grid"},
					&cli.IntFlag{Name: "cols", Usage: "columns of a generated grid"},
					&cli.StringFlag{Name: "pattern", Usage: "generated grid: random, glider, blinker or empty", Value: patternRandom},
					&cli.FloatFlag{Name: "density", Usage: "live cell probability for random grids"},
					&cli.Int64Flag{Name: "seed", Usage: "seed for random grids"},
					&cli.IntFlag{Name: "generations", Aliases: []string{"n"}, Usage: "generations to animate"},
					&cli.DurationFlag{Name: "delay", Usage: "pause between frames"},
					&cli.BoolFlag{Name: "stop-when-stagnant", Usage: "stop once the grid is static or cycling"},
					&cli.BoolFlag{Name: "ansi", Usage: "clear the screen with ANSI escapes between frames"},
				},
				Action: runAction,
			},
			{
				Name:  "step",
				Usage: "advance a snapshot and write the result",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Usage: "snapshot file to read", Required: true},
					&cli.StringFlag{Name: "out", Usage: "snapshot file to write (default stdout)"},
					&cli.IntFlag{Name: "generations", Aliases: []string{"n"}, Usage: "generations to apply"},
				},
				Action: stepAction,
			},
			{
				Name:      "show",
				Usage:     "print a snapshot with its dimensions",
				ArgsUsage: "<snapshot>",
				Action:    showAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatalf("%s: %v", AppName, err)
	}
}
