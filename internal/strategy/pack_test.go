package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePack() *Pack {
	return NewPack(1, 1, 1000, 42, map[string]map[string]float64{
		"3|None|0": {"1-3": 0.7, "1-2": 0.3},
		"5|1-3|1":  {"Challenge": 0.5, "1-5": 0.5},
	})
}

func TestPackSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename(1, 1))

	p := samplePack()
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, p.Iterations, loaded.Iterations)
	require.Equal(t, p.DiceP0, loaded.DiceP0)
	require.Equal(t, p.DiceP1, loaded.DiceP1)
	require.Equal(t, p.Strategies, loaded.Strategies)
}

func TestPackSaveCreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", Filename(2, 1))
	require.NoError(t, samplePack().Save(path))
	_, err := Load(path)
	require.NoError(t, err)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "unsupported pack version")
}

func TestFilename(t *testing.T) {
	require.Equal(t, "strategy_2v3.json", Filename(2, 3))
}
