package config

import (
	"os"
	"path/filepath"
	"testing"

	"filterlab/internal/kernel"
	"filterlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	data := `
log_level: debug
workers: 3
operators:
  gaussian:
    radius: 2
    sigma: 1.5
  median:
    policy: luminance
structuring_element:
  - [1, 1, 1]
  - [1, 1, 1]
  - [1, 1, 1]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 2, cfg.Operators["gaussian"]["radius"])
	assert.Equal(t, "luminance", cfg.Operators["median"]["policy"])

	se, err := cfg.StructuringElementValue()
	require.NoError(t, err)
	assert.Len(t, se.Offsets(), 9)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	cases := map[string]string{
		"bad yaml":         "workers: [",
		"bad level":        "log_level: chatty",
		"negative workers": "workers: -1",
		"even element":     "structuring_element: [[1, 1], [1, 1]]",
		"empty element":    "structuring_element: [[0, 0, 0], [0, 0, 0], [0, 0, 0]]",
		"unknown operator": "operators: {posterize: {levels: 4}}",
		"bad parameter":    "operators: {blur: {size: 4}}",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)

	cfg := Default()
	cfg.Workers = 2
	square, err := kernel.Square(5)
	require.NoError(t, err)
	require.NoError(t, cfg.SetStructuringElement(square))
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Workers)

	se, err := loaded.StructuringElementValue()
	require.NoError(t, err)
	assert.Equal(t, 2, se.RadiusX())
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Workers = -4
	err := cfg.Save(filepath.Join(t.TempDir(), "cfg.yaml"))
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	assert.ErrorIs(t, cfg.SetStructuringElement(nil), models.ErrInvalidConfiguration)
}

func TestEmptyStructuringElementIsCross(t *testing.T) {
	cfg := Default()
	cfg.StructuringElement = nil
	se, err := cfg.StructuringElementValue()
	require.NoError(t, err)
	assert.Equal(t, kernel.Cross().Matrix(), se.Matrix())
}
