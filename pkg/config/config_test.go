package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/fstspell/pkg/speller"
	"github.com/bastiangx/fstspell/pkg/transducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_MatchesSpellerDefaults(t *testing.T) {
	cfg := DefaultConfig().Speller.ToSpellerConfig()
	assert.Equal(t, speller.DefaultConfig(), cfg)
}

func TestToSpellerConfig_NegativeMeansUnset(t *testing.T) {
	sc := SpellerConfig{MaxWeight: -1, NBest: -1, Beam: 2.5, PoolStart: -4, PoolMax: 64, SeenNodeSampleRate: 0}
	cfg := sc.ToSpellerConfig()

	assert.Nil(t, cfg.MaxWeight)
	assert.Nil(t, cfg.NBest)
	require.NotNil(t, cfg.Beam)
	assert.Equal(t, transducer.Weight(2.5), *cfg.Beam)
	assert.Equal(t, 0, cfg.PoolStart)
	assert.Equal(t, 64, cfg.PoolMax)
	assert.Equal(t, uint32(0), cfg.SeenNodeSampleRate)
	assert.False(t, cfg.WithCaps)
}

func TestInitConfig_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestLoadConfig_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[speller]
n_best = 3
max_weight = 20

[cli]
show_weights = true
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Speller.NBest)
	assert.Equal(t, 20.0, cfg.Speller.MaxWeight)
	assert.True(t, cfg.CLI.ShowWeights)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestLoadConfig_RecoversFromTypeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[speller]
n_best = "three"
beam = 1.5
archive = "se.zhfst"

[server]
cache_size = 10
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Speller.NBest, cfg.Speller.NBest)
	assert.Equal(t, 1.5, cfg.Speller.Beam)
	assert.Equal(t, "se.zhfst", cfg.Speller.Archive)
	assert.Equal(t, 10, cfg.Server.CacheSize)
}

func TestLoadConfig_Unparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[speller\nn_best = "), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	n, beam, caps := 2, 0.5, false

	require.NoError(t, cfg.Update(path, &n, nil, &beam, &caps))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Speller.NBest)
	assert.Equal(t, 0.5, loaded.Speller.Beam)
	assert.False(t, loaded.Speller.WithCaps)
	assert.Equal(t, DefaultConfig().Speller.MaxWeight, loaded.Speller.MaxWeight)
}

func TestLoadConfigWithPriority_CustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nmax_limit = 7\n"), 0o644))

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 7, cfg.Server.MaxLimit)
}
