package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/autodocs/internal/config"
)

func TestConfigInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "autodocs.toml")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Wrote "+path)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Provider.Model, cfg.Provider.Model)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autodocs.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", path})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "# mine\n", string(data))
}

func TestConfigInit_Force(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autodocs.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--force", path})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[provider]")
}

func TestConfigShow_MasksAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autodocs.toml")
	require.NoError(t, os.WriteFile(path, []byte("[provider]\napi_key_source = \"config\"\napi_key = \"sk-secret\"\n"), 0o644))
	t.Setenv(config.EnvModel, "")
	t.Setenv(config.EnvBaseURL, "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "show", "--config", path})
	require.NoError(t, cmd.Execute())

	assert.NotContains(t, out.String(), "sk-secret")
	assert.Contains(t, out.String(), "********")
}
