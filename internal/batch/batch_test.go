package batch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lox/liarsdice/internal/strategy"
)

func TestTrainWritesOnePackPerRun(t *testing.T) {
	dir := t.TempDir()
	runs := []Run{
		{Name: "1v1", DiceP0: 1, DiceP1: 1, Iterations: 50, Seed: 1},
		{Name: "1v2", DiceP0: 1, DiceP1: 2, Iterations: 50, Seed: 2},
	}

	err := Train(context.Background(), runs, Options{
		OutDir:   dir,
		Parallel: 2,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	for _, run := range runs {
		pack, err := strategy.Load(filepath.Join(dir, strategy.Filename(run.DiceP0, run.DiceP1)))
		require.NoError(t, err)
		require.Equal(t, run.DiceP0, pack.DiceP0)
		require.Equal(t, run.DiceP1, pack.DiceP1)
		require.Equal(t, run.Iterations, pack.Iterations)
		require.NotEmpty(t, pack.Strategies)
	}
}

func TestTrainRejectsEmptyBatch(t *testing.T) {
	err := Train(context.Background(), nil, Options{Logger: zerolog.Nop()})
	require.Error(t, err)
}

func TestTrainStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Train(ctx, CrossProduct(2, 100000), Options{
		OutDir: t.TempDir(),
		Logger: zerolog.Nop(),
	})
	require.ErrorIs(t, err, context.Canceled)
}
