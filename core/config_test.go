// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/doteki/core"
	"github.com/gobuffalo/envy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every configuration variable for the duration of the test
func clearEnv(t *testing.T) {
	for _, key := range []string{
		core.ResourceDirectoryKey,
		core.ArchiveKey,
		core.DimensionsKey,
		core.LenientKey,
		core.ShaderDirectoryKey,
		core.LogLevelKey,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	envy.Reload()
}

func writeEnv(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfigurationDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := core.LoadConfiguration()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultConfiguration, cfg)
}

func TestLoadConfigurationFromFile(t *testing.T) {
	clearEnv(t)
	path := writeEnv(t, `DOTEKI_RESOURCE_DIR=assets
DOTEKI_DIMENSIONS=3
DOTEKI_LENIENT=true
DOTEKI_LOG_LEVEL=debug
`)

	cfg, err := core.LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, "assets", cfg.Resources.Directory)
	assert.Equal(t, 3, cfg.Resources.Dimensions)
	assert.True(t, cfg.Resources.Lenient)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, core.DefaultConfiguration.Resources.ShaderDirectory, cfg.Resources.ShaderDirectory)
}

func TestLoadConfigurationInvalid(t *testing.T) {
	for name, contents := range map[string]string{
		"dimensions": "DOTEKI_DIMENSIONS=zero\n",
		"negative":   "DOTEKI_DIMENSIONS=-1\n",
		"lenient":    "DOTEKI_LENIENT=sometimes\n",
	} {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := core.LoadConfiguration(writeEnv(t, contents))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := core.LoadConfiguration(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := core.NewLogger(core.LogConfiguration{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, "warning", logger.GetLevel().String())

	_, err = core.NewLogger(core.LogConfiguration{Level: "loud"})
	assert.Error(t, err)
}
