package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coder/quartz"

	"github.com/lox/liarsdice/internal/fileutil"
	"github.com/lox/liarsdice/internal/game"
	"github.com/lox/liarsdice/internal/randutil"
)

const checkpointFileVersion = 1

type checkpointSnapshot struct {
	Version   int                     `json:"version"`
	Iteration int                     `json:"iteration"`
	RNGSeed   int64                   `json:"rng_seed"`
	RNGDraws  int64                   `json:"rng_draws"`
	Config    Config                  `json:"config"`
	Stats     TraversalStats          `json:"stats"`
	Nodes     map[string]nodeSnapshot `json:"nodes"`
}

type nodeSnapshot struct {
	Actions     []string  `json:"actions"`
	RegretSum   []float64 `json:"regret_sum"`
	StrategySum []float64 `json:"strategy_sum"`
}

// SaveCheckpoint atomically writes a snapshot of the trainer state, including
// every node's accumulated sums and the sampler position, so a run can resume
// exactly where it stopped.
func (t *Trainer) SaveCheckpoint(path string) error {
	if path == "" {
		return errors.New("checkpoint path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	snap := checkpointSnapshot{
		Version:   checkpointFileVersion,
		Iteration: t.iteration,
		RNGSeed:   t.rngSeed,
		RNGDraws:  t.rngDraws,
		Config:    t.cfg,
		Stats:     t.stats,
		Nodes:     make(map[string]nodeSnapshot, len(t.nodes)),
	}
	for key, node := range t.nodes {
		labels := make([]string, len(node.Actions))
		for i, a := range node.Actions {
			labels[i] = a.String()
		}
		snap.Nodes[key] = nodeSnapshot{
			Actions:     labels,
			RegretSum:   append([]float64(nil), node.RegretSum...),
			StrategySum: append([]float64(nil), node.StrategySum...),
		}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// LoadFromCheckpoint restores a trainer from a saved snapshot. The deal
// sampler is replayed to its recorded position, so resuming a run produces
// the same deal sequence as a run that never stopped.
func LoadFromCheckpoint(path string) (*Trainer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap checkpointSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	if snap.Version != checkpointFileVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d", snap.Version)
	}
	if err := snap.Config.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint config invalid: %w", err)
	}

	t := &Trainer{
		cfg:       snap.Config,
		nodes:     make(map[string]*Node, len(snap.Nodes)),
		rng:       randutil.New(snap.RNGSeed),
		rngSeed:   snap.RNGSeed,
		iteration: snap.Iteration,
		stats:     snap.Stats,
		clock:     quartz.NewReal(),
	}
	for i := int64(0); i < snap.RNGDraws; i++ {
		t.rng.IntN(game.DiceFaces)
	}
	t.rngDraws = snap.RNGDraws

	for key, ns := range snap.Nodes {
		if len(ns.RegretSum) != len(ns.Actions) || len(ns.StrategySum) != len(ns.Actions) {
			return nil, fmt.Errorf("checkpoint node %q has mismatched action counts", key)
		}
		actions := make([]game.Action, len(ns.Actions))
		for i, label := range ns.Actions {
			a, err := game.ParseAction(label)
			if err != nil {
				return nil, fmt.Errorf("checkpoint node %q: %w", key, err)
			}
			actions[i] = a
		}
		t.nodes[key] = &Node{
			Actions:     actions,
			RegretSum:   append([]float64(nil), ns.RegretSum...),
			StrategySum: append([]float64(nil), ns.StrategySum...),
		}
	}
	return t, nil
}
