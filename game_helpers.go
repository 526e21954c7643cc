package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/sheikhrachel/go-ca/model"
	"github.com/sheikhrachel/go-ca/rules"
	"github.com/sheikhrachel/go-ca/snapshot"
	"github.com/sheikhrachel/go-ca/utils"
)

const (
	patternRandom  = "random"
	patternGlider  = "glider"
	patternBlinker = "blinker"
	patternEmpty   = "empty"
)

// loadConfig builds the run configuration: defaults, then the config file,
// then any flags set on the command line.
func loadConfig(cmd *cli.Command) (utils.Config, rules.Rule, error) {
	config := utils.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		var err error
		if config, err = utils.LoadConfig(path); err != nil {
			return config, rules.Rule{}, err
		}
	}

	if cmd.IsSet("rule") {
		config.Rule = cmd.String("rule")
	}
	if cmd.IsSet("workers") {
		config.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("rows") {
		config.Rows = cmd.Int("rows")
	}
	if cmd.IsSet("cols") {
		config.Cols = cmd.Int("cols")
	}
	if cmd.IsSet("density") {
		config.RandomDensity = cmd.Float("density")
	}
	if cmd.IsSet("seed") {
		config.Seed = cmd.Int64("seed")
	}
	if cmd.IsSet("generations") {
		config.Generations = cmd.Int("generations")
	}
	if cmd.IsSet("delay") {
		config.FrameRate = cmd.Duration("delay")
	}
	if cmd.IsSet("stop-when-stagnant") {
		config.StopWhenStagnant = cmd.Bool("stop-when-stagnant")
	}
	if cmd.IsSet("ansi") {
		config.ANSIClear = cmd.Bool("ansi")
	}

	if err := config.Validate(); err != nil {
		return config, rules.Rule{}, err
	}
	rule, err := config.ParsedRule()
	return config, rule, err
}

// initialGrid loads the grid from path, or generates one from the pattern.
func initialGrid(path, pattern string, config utils.Config) (*model.Grid, error) {
	if path != "" {
		return snapshot.Load(path)
	}

	if err := config.ValidateSize(); err != nil {
		return nil, err
	}
	grid, err := model.NewEmptyGrid(config.Rows, config.Cols)
	if err != nil {
		return nil, err
	}

	switch pattern {
	case patternRandom:
		grid.Randomize(config.RandomDensity, rand.New(rand.NewSource(config.Seed)))
	case patternGlider:
		grid.AddGlider(0, 0)
	case patternBlinker:
		grid.AddBlinker(config.Rows/2-1, config.Cols/2)
	case patternEmpty:
	default:
		return nil, errors.Errorf("[initialGrid] unknown pattern %q", pattern)
	}
	return grid, nil
}

// advance steps the grid n generations, in parallel when more than one worker is configured.
func advance(grid *model.Grid, n int, rule rules.Rule, workers int) error {
	if workers == 1 {
		grid.StepN(n, rule)
		return nil
	}
	return grid.StepNParallel(n, rule, workers)
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// animate prints the initial grid and then one frame per generation.
// It returns early, without error, when ctx is cancelled.
func animate(ctx context.Context, out io.Writer, grid *model.Grid, rule rules.Rule, config utils.Config) (*utils.Stats, error) {
	renderer := model.NewTerminalRenderer(out, config.ANSIClear)
	stats := utils.NewStats(grid.CountLivingCells())

	if err := renderer.Frame(grid); err != nil {
		return stats, err
	}

	for generation := 1; generation <= config.Generations; generation++ {
		if err := wait(ctx, config.FrameRate); err != nil {
			log.Printf("Shutting down after %d generations in %.1fs", stats.Generations, stats.Elapsed().Seconds())
			return stats, nil
		}

		frameStart := time.Now()
		grid.UpdateHistory()
		if err := advance(grid, 1, rule, config.Workers); err != nil {
			return stats, err
		}

		stats.Record(grid.CountLivingCells(), time.Since(frameStart))

		if err := renderer.Frame(grid); err != nil {
			return stats, err
		}

		log.Printf("Gen: %d | Living: %d | Peak: %d | Avg Pop: %.1f | Step: %s | %.1f gen/sec",
			generation, stats.Population, stats.PeakPopulation, stats.AveragePopulation, stats.LastStep, stats.Rate())

		if stats.Extinct() {
			log.Printf("Extinct at generation %d", generation)
		}
		if config.StopWhenStagnant && grid.IsStagnant() {
			log.Printf("Stagnant at generation %d, stopping", generation)
			break
		}
	}
	return stats, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	config, rule, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	grid, err := initialGrid(cmd.String("in"), cmd.String("pattern"), config)
	if err != nil {
		return err
	}

	log.Printf("Grid: %dx%d | Rule: %s | Initial living cells: %d",
		grid.Rows(), grid.Cols(), rule, grid.CountLivingCells())

	_, err = animate(ctx, cmd.Root().Writer, grid, rule, config)
	return err
}

func stepAction(ctx context.Context, cmd *cli.Command) error {
	config, rule, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	grid, err := snapshot.Load(cmd.String("in"))
	if err != nil {
		return err
	}

	if err = advance(grid, config.Generations, rule, config.Workers); err != nil {
		return err
	}

	if out := cmd.String("out"); out != "" {
		return snapshot.Save(out, grid)
	}
	return snapshot.Encode(cmd.Root().Writer, grid)
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("show expects exactly one snapshot file")
	}

	grid, err := snapshot.Load(cmd.Args().First())
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if err = snapshot.Encode(out, grid); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%dx%d, %d living cells\n", grid.Rows(), grid.Cols(), grid.CountLivingCells())
	return err
}
