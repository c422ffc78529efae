package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SSH = "ray-head"

	data, err := Marshal(cfg)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "# raytop configuration"))
	assert.Contains(t, out, "interval: 4s\n")
	assert.Contains(t, out, "timeout: 10s\n")
	assert.Contains(t, out, "ssh: ray-head\n")
	assert.Contains(t, out, "  page_size: 10\n")
	assert.NotContains(t, out, "filters:")
}

func TestWrite_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.Address = "http://head:8265"
	cfg.Interval = 1500 * time.Millisecond
	cfg.View.Mode = "card"
	cfg.View.Sort = SortConfig{Key: "state", Desc: true}
	cfg.View.Filters = map[string]string{"hostname": "gpu"}

	require.NoError(t, Write(path, cfg, false))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWrite_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("address: keep\n"), 0644))

	err := Write(path, DefaultConfig(), false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "address: keep\n", string(data))

	require.NoError(t, Write(path, DefaultConfig(), true))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAddress, loaded.Address)
}
