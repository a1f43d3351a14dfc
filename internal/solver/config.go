package solver

import (
	"errors"
	"time"
)

// Config controls a single training run. One run trains one fixed dice
// configuration; batches of configurations are separate runs with separate
// node tables.
type Config struct {
	// DiceP0 and DiceP1 fix the dice counts for the whole run.
	DiceP0 int `json:"dice_p0"`
	DiceP1 int `json:"dice_p1"`

	// Iterations is the exact number of sampled deals to train on.
	Iterations int `json:"iterations"`

	// Seed seeds the deal sampler; 0 derives a seed from the clock.
	Seed int64 `json:"seed"`

	// ProgressEvery controls how often Run emits progress (in iterations).
	// Zero means roughly one hundred reports per run.
	ProgressEvery int `json:"progress_every"`

	// CheckpointPath and CheckpointEvery enable periodic snapshots of the
	// trainer state. A zero interval disables checkpointing.
	CheckpointPath  string        `json:"checkpoint_path"`
	CheckpointEvery time.Duration `json:"checkpoint_every"`
}

// Validate ensures the run parameters are safe to use.
func (c Config) Validate() error {
	if c.DiceP0 <= 0 || c.DiceP1 <= 0 {
		return errors.New("dice counts must be > 0")
	}
	if c.Iterations <= 0 {
		return errors.New("iterations must be > 0")
	}
	if c.ProgressEvery < 0 {
		return errors.New("progress interval cannot be negative")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("checkpoint interval cannot be negative")
	}
	if c.CheckpointEvery > 0 && c.CheckpointPath == "" {
		return errors.New("checkpoint interval requires a checkpoint path")
	}
	return nil
}
