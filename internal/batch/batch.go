// Package batch trains several dice configurations as fully independent
// runs. Each run owns its own trainer and node table; the only coordination
// between them is the errgroup join and a concurrency limit.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/liarsdice/internal/solver"
	"github.com/lox/liarsdice/internal/strategy"
)

// Options controls how a batch executes.
type Options struct {
	// OutDir receives one strategy pack per run.
	OutDir string

	// Parallel caps concurrent runs; zero means one per CPU.
	Parallel int

	Logger zerolog.Logger
}

// Train executes every run and writes its finalized strategy pack. Runs share
// no state, so a failure in one cancels the rest without corrupting any
// already-written pack.
func Train(ctx context.Context, runs []Run, opts Options) error {
	if len(runs) == 0 {
		return fmt.Errorf("no runs to train")
	}
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	opts.Logger.Info().
		Int("runs", len(runs)).
		Int("parallel", parallel).
		Msg("starting batch training")
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, run := range runs {
		g.Go(func() error {
			return trainOne(ctx, run, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	opts.Logger.Info().
		Dur("elapsed", time.Since(start)).
		Msg("batch training complete")
	return nil
}

func trainOne(ctx context.Context, run Run, opts Options) error {
	logger := opts.Logger.With().Str("run", run.Name).Logger()

	cfg := solver.Config{
		DiceP0:     run.DiceP0,
		DiceP1:     run.DiceP1,
		Iterations: run.Iterations,
		Seed:       run.Seed,
	}
	table, err := solver.TrainTable(ctx, cfg, func(p solver.Progress) {
		logger.Debug().
			Int("iteration", p.Iteration).
			Int("info_sets", p.InfoSets).
			Msg("training progress")
	})
	if err != nil {
		return fmt.Errorf("train %s: %w", run.Name, err)
	}

	pack := strategy.NewPack(run.DiceP0, run.DiceP1, run.Iterations, run.Seed, table)
	path := filepath.Join(opts.OutDir, strategy.Filename(run.DiceP0, run.DiceP1))
	if err := pack.Save(path); err != nil {
		return fmt.Errorf("save %s: %w", run.Name, err)
	}

	logger.Info().
		Str("path", path).
		Int("info_sets", len(table)).
		Msg("strategy pack written")
	return nil
}
