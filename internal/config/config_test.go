package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(CLI{})
	require.NoError(t, err)
	require.Equal(t, defaultBindAddr, cfg.BindAddr)
	require.Equal(t, defaultBindPort, cfg.BindPort)
	require.Equal(t, defaultAdminPort, cfg.AdminPort)
	require.Equal(t, defaultWorkers, cfg.Workers)
	require.Empty(t, cfg.Import)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memds.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[network]
bind_addr = "0.0.0.0"
bind_port = 7000

[fs]
import = "export.dat"
`), 0o644))

	cfg, err := Load(CLI{Config: path})
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.BindAddr)
	require.Equal(t, 7000, cfg.BindPort)
	require.Equal(t, "export.dat", cfg.Import)
}

func TestCLIOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memds.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[network]
bind_addr = "0.0.0.0"
bind_port = 7000
`), 0o644))

	cfg, err := Load(CLI{Config: path, BindPort: 9999})
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.BindAddr)
	require.Equal(t, 9999, cfg.BindPort)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(CLI{Config: "/nonexistent/memds.toml"})
	require.Error(t, err)
}
