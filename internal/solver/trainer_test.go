package solver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/lox/liarsdice/internal/game"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	for name, cfg := range map[string]Config{
		"zero dice":           {DiceP0: 0, DiceP1: 1, Iterations: 10},
		"zero iterations":     {DiceP0: 1, DiceP1: 1, Iterations: 0},
		"negative progress":   {DiceP0: 1, DiceP1: 1, Iterations: 10, ProgressEvery: -1},
		"interval sans path":  {DiceP0: 1, DiceP1: 1, Iterations: 10, CheckpointEvery: 1},
		"negative checkpoint": {DiceP0: 1, DiceP1: 1, Iterations: 10, CheckpointEvery: -1},
	} {
		if _, err := New(cfg); err == nil {
			t.Fatalf("%s: expected config error", name)
		}
	}
}

func TestRunEmitsProgressAndVisitsInfoSets(t *testing.T) {
	trainer, err := New(Config{DiceP0: 1, DiceP1: 1, Iterations: 20, Seed: 1, ProgressEvery: 5})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	var reports []Progress
	if err := trainer.Run(context.Background(), func(p Progress) {
		reports = append(reports, p)
	}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(reports) != 4 {
		t.Fatalf("expected 4 progress reports, got %d", len(reports))
	}
	final := reports[len(reports)-1]
	if final.Iteration != 20 {
		t.Fatalf("expected final progress at iteration 20, got %d", final.Iteration)
	}
	if final.InfoSets == 0 || trainer.InfoSets() == 0 {
		t.Fatalf("expected info sets to be visited")
	}
	if final.Stats.NodesVisited == 0 || final.Stats.TerminalNodes == 0 {
		t.Fatalf("expected traversal stats to be recorded: %+v", final.Stats)
	}
	// Depth is bounded by the bid ladder: 12 bids for two dice.
	if final.Stats.MaxDepth > 12 {
		t.Fatalf("depth %d exceeds the bid space", final.Stats.MaxDepth)
	}
}

func TestRunHonoursContextCancellation(t *testing.T) {
	trainer, err := New(Config{DiceP0: 1, DiceP1: 1, Iterations: 1000000, Seed: 1})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := trainer.Run(ctx, nil); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if trainer.Iteration() != 0 {
		t.Fatalf("expected no iterations after immediate cancel, got %d", trainer.Iteration())
	}
}

func TestTableFiltersNegligibleProbabilities(t *testing.T) {
	trainer, err := New(Config{DiceP0: 1, DiceP1: 1, Iterations: 500, Seed: 7})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	table := trainer.Table()
	if len(table) == 0 {
		t.Fatalf("expected a non-empty table")
	}
	for key, probs := range table {
		sum := 0.0
		for label, p := range probs {
			if p <= negligibleProbability {
				t.Fatalf("%s: exported negligible probability %v for %s", key, p, label)
			}
			if _, err := game.ParseAction(label); err != nil {
				t.Fatalf("%s: unparseable action label %q", key, label)
			}
			sum += p
		}
		if sum > 1.0+1e-9 {
			t.Fatalf("%s: probabilities sum to %v > 1", key, sum)
		}
	}
}

// With one die each, bidding one of your own face can never be beaten by a
// challenge, while bidding two of a face you do not hold always loses one.
// After a few thousand iterations the averaged strategy should clearly
// separate the two.
func TestTrainingConvergesOnOpeningBids(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping convergence check in short mode")
	}

	table, err := TrainTable(context.Background(), Config{DiceP0: 1, DiceP1: 1, Iterations: 5000, Seed: 3}, nil)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	checked := 0
	for face := 1; face <= game.DiceFaces; face++ {
		key := fmt.Sprintf("%d|None|0", face)
		probs, ok := table[key]
		if !ok {
			continue
		}
		checked++

		safe := probs[fmt.Sprintf("1-%d", face)]
		if safe < 0.02 {
			t.Fatalf("hand [%d]: safe bid 1-%d has negligible weight %v", face, face, safe)
		}
		for other := 1; other <= game.DiceFaces; other++ {
			if other == face {
				continue
			}
			hopeless := probs[fmt.Sprintf("2-%d", other)]
			if safe <= hopeless {
				t.Fatalf("hand [%d]: safe bid 1-%d (%v) not preferred over hopeless 2-%d (%v)", face, face, safe, other, hopeless)
			}
		}
	}
	if checked == 0 {
		t.Fatalf("no opening info sets present in the table")
	}
}

func TestTrainingIsDeterministicPerSeed(t *testing.T) {
	cfg := Config{DiceP0: 1, DiceP1: 2, Iterations: 200, Seed: 11}

	a, err := TrainTable(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("train a: %v", err)
	}
	b, err := TrainTable(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("train b: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("table sizes diverged: %d vs %d", len(a), len(b))
	}
	for key, probsA := range a {
		probsB, ok := b[key]
		if !ok {
			t.Fatalf("info set %q missing from second run", key)
		}
		for label, p := range probsA {
			if probsB[label] != p {
				t.Fatalf("%s/%s diverged: %v vs %v", key, label, p, probsB[label])
			}
		}
	}
}

func TestInfoSetKeysMatchTheWireFormat(t *testing.T) {
	table, err := TrainTable(context.Background(), Config{DiceP0: 1, DiceP1: 1, Iterations: 50, Seed: 5}, nil)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	for key := range table {
		parts := strings.Split(key, "|")
		if len(parts) != 3 {
			t.Fatalf("malformed info set key %q", key)
		}
		if parts[1] != "None" {
			if _, err := game.ParseAction(parts[1]); err != nil {
				t.Fatalf("key %q: bad bid segment: %v", key, err)
			}
		}
		if _, err := strconv.Atoi(parts[2]); err != nil {
			t.Fatalf("key %q: bad bid count: %v", key, err)
		}
	}
}
