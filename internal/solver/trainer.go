// Package solver implements chance-sampled counterfactual regret minimisation
// for two-player Liar's Dice. Each iteration samples one random deal (the
// only chance event in the game) and then fully enumerates both players'
// decisions, accumulating per-information-set regret; the strategy averaged
// over many iterations approximates a Nash equilibrium.
package solver

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/liarsdice/internal/game"
	"github.com/lox/liarsdice/internal/randutil"
)

// negligibleProbability is the cutoff below which actions are dropped from
// the exported table.
const negligibleProbability = 0.001

// Progress is emitted periodically during a training run.
type Progress struct {
	Iteration int
	InfoSets  int
	Stats     TraversalStats
}

// Trainer owns the information-set table for one training run. The table is
// created with the trainer, written throughout Run, read once by Table, and
// never shared across runs. A single walk is strictly synchronous, so the
// trainer requires no locking; concurrent trainers must each own their own
// instance.
type Trainer struct {
	cfg       Config
	nodes     map[string]*Node
	rng       *rand.Rand
	rngSeed   int64
	rngDraws  int64
	iteration int
	stats     TraversalStats
	clock     quartz.Clock
}

// New constructs a trainer for the given run configuration.
func New(cfg Config) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := randutil.Seed(cfg.Seed)
	return &Trainer{
		cfg:     cfg,
		nodes:   make(map[string]*Node),
		rng:     randutil.New(seed),
		rngSeed: seed,
		clock:   quartz.NewReal(),
	}, nil
}

// Run executes the remaining iterations of the run. Every iteration deals a
// fresh random hand and walks the full decision tree with both reach weights
// at 1. All learning accumulates in the node table as a side effect; the
// caller extracts it with Table once Run returns. Cancelling the context
// stops between iterations.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	batch := t.cfg.ProgressEvery
	if batch <= 0 {
		batch = t.cfg.Iterations / 100
		if batch == 0 {
			batch = 1
		}
	}

	lastCheckpoint := t.clock.Now()
	for t.iteration < t.cfg.Iterations {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		stats := TraversalStats{}
		deal := game.NewState(t.rng, t.cfg.DiceP0, t.cfg.DiceP1)
		t.rngDraws += int64(t.cfg.DiceP0 + t.cfg.DiceP1)
		t.walk(deal, 1.0, 1.0, 0, &stats)
		stats.IterationTime = time.Since(start)
		t.stats = stats
		t.iteration++

		if t.cfg.CheckpointEvery > 0 && t.clock.Since(lastCheckpoint) >= t.cfg.CheckpointEvery {
			if err := t.SaveCheckpoint(t.cfg.CheckpointPath); err != nil {
				return err
			}
			lastCheckpoint = t.clock.Now()
		}

		if progress != nil && t.iteration%batch == 0 {
			progress(Progress{Iteration: t.iteration, InfoSets: len(t.nodes), Stats: stats})
		}
	}

	if progress != nil && t.iteration%batch != 0 {
		progress(Progress{Iteration: t.iteration, InfoSets: len(t.nodes), Stats: t.stats})
	}
	if t.cfg.CheckpointEvery > 0 {
		if err := t.SaveCheckpoint(t.cfg.CheckpointPath); err != nil {
			return err
		}
	}
	return nil
}

// Table materialises the averaged strategy accumulated so far as
// info-set key -> action label -> probability. Actions whose average
// probability has fallen to noise (at or below 0.001) are dropped, so each
// distribution sums to at most 1; before filtering it sums to 1 exactly.
// This table is the only artifact persistence and play consume.
func (t *Trainer) Table() map[string]map[string]float64 {
	table := make(map[string]map[string]float64, len(t.nodes))
	for key, node := range t.nodes {
		avg := node.AverageStrategy()
		probs := make(map[string]float64)
		for i, action := range node.Actions {
			if avg[i] > negligibleProbability {
				probs[action.String()] = avg[i]
			}
		}
		table[key] = probs
	}
	return table
}

// TrainTable runs a complete training pass for cfg and returns the finalized
// strategy table. It is the one-shot entry point batch training builds on.
func TrainTable(ctx context.Context, cfg Config, progress func(Progress)) (map[string]map[string]float64, error) {
	t, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := t.Run(ctx, progress); err != nil {
		return nil, err
	}
	return t.Table(), nil
}

// Config returns the run configuration.
func (t *Trainer) Config() Config { return t.cfg }

// Seed returns the resolved sampler seed, which differs from the configured
// seed when that was zero.
func (t *Trainer) Seed() int64 { return t.rngSeed }

// Iteration returns the number of completed iterations.
func (t *Trainer) Iteration() int { return t.iteration }

// InfoSets returns the number of distinct information sets visited so far.
func (t *Trainer) InfoSets() int { return len(t.nodes) }

// Stats returns the traversal statistics of the most recent iteration.
func (t *Trainer) Stats() TraversalStats { return t.stats }

// SetIterations raises the iteration target, typically after resuming from a
// checkpoint that had already reached its original target.
func (t *Trainer) SetIterations(n int) error {
	if n < t.iteration {
		return fmt.Errorf("total iterations %d less than completed %d", n, t.iteration)
	}
	t.cfg.Iterations = n
	return nil
}
