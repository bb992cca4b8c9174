package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, defaultModuleExtension, s.ModuleExtension)
	require.Equal(t, defaultHTTPTimeoutMs, s.HTTPTimeoutMs)
	require.Empty(t, s.ConfigFile)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lispy.yaml")
	yamlBody := "modulePaths:\n  - ./lib\nhttpTimeoutMs: 5000\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	s, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"./lib"}, s.ModulePaths)
	require.Equal(t, 5000, s.HTTPTimeoutMs)
	require.Equal(t, path, s.ConfigFile)
}

func TestLoad_ExplicitMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestToEvaluatorConfig_FillsZeroValues(t *testing.T) {
	cfg := Settings{}.ToEvaluatorConfig()
	require.Equal(t, defaultModuleExtension, cfg.ModuleExtension)
	require.Equal(t, defaultHTTPTimeoutMs, cfg.HTTPTimeoutMs)
}
