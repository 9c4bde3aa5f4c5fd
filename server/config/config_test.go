package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxvol/surface/types"
)

func TestConfig_ValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("invalid listen address", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.ListenAddress = "rando-address" // doesn't follow the format

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidListenAddress)
	})

	t.Run("missing terminal URL", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Terminal.URL = ""

		assert.ErrorIs(t, ValidateConfig(cfg), ErrMissingTerminalURL)
	})

	t.Run("invalid refresh interval", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Surfaces.RefreshSeconds = 0

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidRefresh)
	})

	t.Run("invalid pair", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Surfaces.Pairs = []string{"EUR/USD"}

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidPair)
	})

	t.Run("unknown tenor", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Surfaces.Tenors = []string{"1M", "5Y"}

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidTenor)
	})

	t.Run("valid configuration", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateConfig(DefaultConfig()))
	})
}

func TestConfig_TenorList(t *testing.T) {
	t.Parallel()

	t.Run("defaults to the full curve", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()

		assert.Equal(t, types.Tenors(), cfg.Surfaces.TenorList())
	})

	t.Run("explicit curve preserved in order", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Surfaces.Tenors = []string{"1M", "3M", "1Y"}

		assert.Equal(
			t,
			[]types.Tenor{types.Tenor1M, types.Tenor3M, types.Tenor1Y},
			cfg.Surfaces.TenorList(),
		)
	})
}

func TestConfig_Read(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Read(filepath.Join(t.TempDir(), "missing.toml"))

		assert.Error(t, err)
	})

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		content := `
listen_address = "0.0.0.0:9000"

[terminal]
url = "http://127.0.0.1:8194"
timeout_seconds = 10

[surfaces]
pairs = ["EURUSD", "USDJPY"]
tenors = ["1M", "3M"]
refresh_seconds = 60
`

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Read(path)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddress)
		assert.Equal(t, []string{"EURUSD", "USDJPY"}, cfg.Surfaces.Pairs)
		assert.Equal(t, 60, cfg.Surfaces.RefreshSeconds)
		assert.NoError(t, ValidateConfig(cfg))
	})
}
