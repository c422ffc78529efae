package cli

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/raytop/internal/api/apitest"
	"github.com/rileyhilliard/raytop/internal/config"
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/pkg/sshutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInitDefaults(t *testing.T) {
	t.Run("env vars populated", func(t *testing.T) {
		t.Setenv("RAYTOP_ADDRESS", "http://env-head:8265")
		t.Setenv("RAYTOP_SSH", "env-host")
		t.Setenv("RAYTOP_NON_INTERACTIVE", "true")
		t.Setenv("CI", "")

		defaults := getInitDefaults()
		assert.Equal(t, "http://env-head:8265", defaults.Address)
		assert.Equal(t, "env-host", defaults.SSH)
		assert.True(t, defaults.NonInteractive)
	})

	t.Run("CI env triggers non-interactive", func(t *testing.T) {
		t.Setenv("RAYTOP_NON_INTERACTIVE", "")
		t.Setenv("CI", "true")

		assert.True(t, getInitDefaults().NonInteractive)
	})

	t.Run("empty env vars", func(t *testing.T) {
		t.Setenv("RAYTOP_ADDRESS", "")
		t.Setenv("RAYTOP_SSH", "")
		t.Setenv("RAYTOP_NON_INTERACTIVE", "")
		t.Setenv("CI", "")

		assert.Equal(t, initDefaults{}, getInitDefaults())
	})
}

func TestMergeInitDefaults(t *testing.T) {
	d := initDefaults{Address: "http://env:8265", SSH: "env-host", NonInteractive: true}

	got := mergeInitDefaults(InitOptions{Address: "http://flag:8265"}, d)
	assert.Equal(t, "http://flag:8265", got.Address, "flags win over env")
	assert.Equal(t, "env-host", got.SSH)
	assert.True(t, got.NonInteractive)

	got = mergeInitDefaults(InitOptions{NonInteractive: true}, initDefaults{})
	assert.True(t, got.NonInteractive)
}

func TestInitPath(t *testing.T) {
	assert.Equal(t, "/tmp/x.yaml", initPath(InitOptions{Path: "/tmp/x.yaml", Global: true}))
	assert.Equal(t, config.GlobalConfigPath(), initPath(InitOptions{Global: true}))
	assert.Equal(t, config.ConfigFileName, initPath(InitOptions{}))
}

func TestInit_NonInteractiveWritesCheckedConfig(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SetNodes(cluster()...)

	path := filepath.Join(t.TempDir(), "sub", config.ConfigFileName)
	var out bytes.Buffer
	err := Init(InitOptions{Address: srv.URL, Path: path, NonInteractive: true}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "3 nodes reported")
	assert.Contains(t, out.String(), "Created "+path)
	assert.Equal(t, 1, srv.Requests())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, cfg.Address)
	assert.Equal(t, config.DefaultConfig().Interval, cfg.Interval)
	assert.Empty(t, cfg.SSH)
}

func TestInit_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("address: http://old:8265\n"), 0644))

	err := Init(InitOptions{Address: "http://new:8265", Path: path, NonInteractive: true, SkipCheck: true}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	data, _ := os.ReadFile(path)
	assert.Contains(t, string(data), "old", "file untouched without --force")

	err = Init(InitOptions{Address: "http://new:8265", Path: path, NonInteractive: true, SkipCheck: true, Overwrite: true}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://new:8265", cfg.Address)
}

func TestInit_FailedCheckWritesNothing(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.FailWith(http.StatusServiceUnavailable)

	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	err := Init(InitOptions{Address: srv.URL, Path: path, NonInteractive: true}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestInit_InvalidAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	err := Init(InitOptions{Address: "ftp://head", Path: path, NonInteractive: true, SkipCheck: true}, &bytes.Buffer{})
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestInit_SkipCheckKeepsSSH(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	err := Init(InitOptions{Address: "http://10.0.0.1:8265", SSH: "ray-head", Path: path, NonInteractive: true, SkipCheck: true}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ray-head", cfg.SSH)
}

func TestSSHOptions(t *testing.T) {
	hosts := []sshutil.HostEntry{
		{Alias: "ray-head", Hostname: "10.0.0.1", User: "ubuntu"},
		{Alias: "bastion"},
	}

	opts := sshOptions(hosts, "")
	require.Len(t, opts, 3)
	assert.Equal(t, "", opts[0].Value)
	assert.Equal(t, "ray-head (10.0.0.1, user: ubuntu)", opts[1].Key)
	assert.Equal(t, "ray-head", opts[1].Value)
	assert.Equal(t, "bastion", opts[2].Key)

	opts = sshOptions(hosts, "user@elsewhere")
	require.Len(t, opts, 4)
	assert.Equal(t, "user@elsewhere", opts[3].Value)

	opts = sshOptions(hosts, "bastion")
	assert.Len(t, opts, 3)
}

func TestValidateInputs(t *testing.T) {
	assert.NoError(t, validateAddressInput("http://head:8265"))
	assert.NoError(t, validateAddressInput("head:8265"))
	assert.Error(t, validateAddressInput(""))
	assert.Error(t, validateAddressInput("ftp://head"))

	assert.NoError(t, validateIntervalInput("4s"))
	assert.NoError(t, validateIntervalInput(" 1m "))
	assert.Error(t, validateIntervalInput("100ms"))
	assert.Error(t, validateIntervalInput("soon"))
}
