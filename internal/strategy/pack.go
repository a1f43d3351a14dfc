// Package strategy persists the averaged strategy tables produced by
// training and serves them back during play.
package strategy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lox/liarsdice/internal/fileutil"
)

const packFileVersion = 1

// Pack is the on-disk artifact of one training run: the filtered average
// strategy table keyed by information set and action label, plus enough
// metadata to tell packs apart. Keys and labels are stored verbatim; they
// are the wire contract with the trainer.
type Pack struct {
	Version     int                           `json:"version"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Iterations  int                           `json:"iterations"`
	DiceP0      int                           `json:"dice_p0"`
	DiceP1      int                           `json:"dice_p1"`
	Seed        int64                         `json:"seed,omitempty"`
	Strategies  map[string]map[string]float64 `json:"strategies"`
}

// NewPack wraps a finalized strategy table in a versioned pack.
func NewPack(dice0, dice1, iterations int, seed int64, table map[string]map[string]float64) *Pack {
	return &Pack{
		Version:     packFileVersion,
		GeneratedAt: time.Now().UTC(),
		Iterations:  iterations,
		DiceP0:      dice0,
		DiceP1:      dice1,
		Seed:        seed,
		Strategies:  table,
	}
}

// Filename returns the conventional pack name for a dice configuration.
func Filename(dice0, dice1 int) string {
	return fmt.Sprintf("strategy_%dv%d.json", dice0, dice1)
}

// Save writes the pack atomically so a crash mid-save never clobbers an
// existing pack.
func (p *Pack) Save(path string) error {
	if p == nil {
		return errors.New("nil pack")
	}
	if path == "" {
		return errors.New("destination path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create pack dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pack: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write pack: %w", err)
	}
	return nil
}

// Load reads a pack from disk, rejecting unknown versions.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	if p.Version != packFileVersion {
		return nil, fmt.Errorf("unsupported pack version %d", p.Version)
	}
	return &p, nil
}
