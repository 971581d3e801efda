package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesStockScene(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Vec3{0, 1.7, 8}, cfg.Camera.Position)
	assert.Equal(t, float32(0.05), cfg.Camera.MoveSpeed)
	assert.Equal(t, float32(0.8), cfg.Camera.RotationSpeed)
	assert.Equal(t, float32(30), cfg.Camera.MapSize)
	assert.Equal(t, Vec3{0, 10, 0}, cfg.Light.Position)
	assert.Equal(t, Vec3{-7.5, 1.7, -7.5}, cfg.Exhibits.Bead)
	assert.Equal(t, Vec3{0, 2.7, -7.5}, cfg.Exhibits.CloudObstacle)
	assert.Equal(t, Vec3{0, 1.7, 3}, cfg.Reset.Position)
}

func TestDecodeTOMLOverlaysDefaults(t *testing.T) {
	data := []byte(`
[camera]
move_speed = 0.1

[toggles]
disabled = ["Water"]
`)
	cfg, err := Decode(data, "toml")
	require.NoError(t, err)

	assert.Equal(t, float32(0.1), cfg.Camera.MoveSpeed)
	assert.Equal(t, float32(0.8), cfg.Camera.RotationSpeed)
	assert.True(t, cfg.IsDisabled("water"))
	assert.False(t, cfg.IsDisabled("bead"))
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
light:
  position: [1, 2, 3]
window:
  vsync: false
`)
	cfg, err := Decode(data, "yml")
	require.NoError(t, err)

	assert.Equal(t, Vec3{1, 2, 3}, cfg.Light.Position)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, 1920, cfg.Window.Width)
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, err := Decode([]byte("{}"), "json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeRejectsInvalidValues(t *testing.T) {
	_, err := Decode([]byte("[camera]\nnear = 10.0\nfar = 1.0\n"), "toml")
	assert.Error(t, err)

	_, err = Decode([]byte("[assets]\nskybox = [\"a.png\"]\n"), "toml")
	assert.Error(t, err)
}

func TestLoadFromFileAndRoundTripTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")

	cfg := Default()
	cfg.Camera.EyeHeight = 2
	data, err := cfg.EncodeTOML()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(2), loaded.Camera.EyeHeight)
	assert.Equal(t, cfg.Presets, loaded.Presets)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
