// Package config holds the scene configuration and loads it from TOML or YAML files.
//
// Files are layered over Default: any field absent from the file keeps its default value.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned when a config file extension is neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Vec3 is a config-friendly 3-component vector, written as [x, y, z].
type Vec3 [3]float32

// Mgl converts the vector into mgl32 form.
func (v Vec3) Mgl() mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// Config is the complete set of tunables for one run of the scene.
type Config struct {
	Window   WindowConfig   `toml:"window" yaml:"window"`
	Camera   CameraConfig   `toml:"camera" yaml:"camera"`
	Light    LightConfig    `toml:"light" yaml:"light"`
	Exhibits ExhibitsConfig `toml:"exhibits" yaml:"exhibits"`
	Toggles  TogglesConfig  `toml:"toggles" yaml:"toggles"`
	Presets  []PresetConfig `toml:"presets" yaml:"presets"`
	Reset    PresetConfig   `toml:"reset" yaml:"reset"`
	Assets   AssetsConfig   `toml:"assets" yaml:"assets"`
}

// WindowConfig describes the initial window and presentation settings.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
}

// CameraConfig holds the free-fly camera's start pose, speeds and bounds.
type CameraConfig struct {
	Position      Vec3    `toml:"position" yaml:"position"`
	Yaw           float32 `toml:"yaw" yaml:"yaw"`
	Pitch         float32 `toml:"pitch" yaml:"pitch"`
	MoveSpeed     float32 `toml:"move_speed" yaml:"move_speed"`
	RotationSpeed float32 `toml:"rotation_speed" yaml:"rotation_speed"`
	EyeHeight     float32 `toml:"eye_height" yaml:"eye_height"`
	MapSize       float32 `toml:"map_size" yaml:"map_size"`
	FovDegrees    float32 `toml:"fov" yaml:"fov"`
	Near          float32 `toml:"near" yaml:"near"`
	Far           float32 `toml:"far" yaml:"far"`
}

// LightConfig places the single point light.
type LightConfig struct {
	Position Vec3 `toml:"position" yaml:"position"`
}

// ExhibitsConfig places every exhibit in world space.
type ExhibitsConfig struct {
	Bead          Vec3 `toml:"bead" yaml:"bead"`
	Mandelbox     Vec3 `toml:"mandelbox" yaml:"mandelbox"`
	Mandelbulb    Vec3 `toml:"mandelbulb" yaml:"mandelbulb"`
	Sponge        Vec3 `toml:"sponge" yaml:"sponge"`
	Portal        Vec3 `toml:"portal" yaml:"portal"`
	Kaleidoscope  Vec3 `toml:"kaleidoscope" yaml:"kaleidoscope"`
	Cloud         Vec3 `toml:"cloud" yaml:"cloud"`
	CloudObstacle Vec3 `toml:"cloud_obstacle" yaml:"cloud_obstacle"`
	Water         Vec3 `toml:"water" yaml:"water"`
}

// TogglesConfig holds the initial state of every runtime toggle.
type TogglesConfig struct {
	BeadSpecular  bool `toml:"bead_specular" yaml:"bead_specular"`
	BeadDiffuse   bool `toml:"bead_diffuse" yaml:"bead_diffuse"`
	CloudObstacle bool `toml:"cloud_obstacle" yaml:"cloud_obstacle"`
	// Disabled lists exhibit names that start switched off.
	Disabled []string `toml:"disabled" yaml:"disabled"`
}

// PresetConfig is a named camera pose that a key press can jump to.
type PresetConfig struct {
	Name     string  `toml:"name" yaml:"name"`
	Position Vec3    `toml:"position" yaml:"position"`
	Yaw      float32 `toml:"yaw" yaml:"yaw"`
	Pitch    float32 `toml:"pitch" yaml:"pitch"`
}

// AssetsConfig lists texture paths. An empty path selects a procedural texture.
type AssetsConfig struct {
	GroundAlbedo string `toml:"ground_albedo" yaml:"ground_albedo"`
	GroundNormal string `toml:"ground_normal" yaml:"ground_normal"`
	// Skybox and PortalSkybox are six face paths in +X, -X, +Y, -Y, +Z, -Z order.
	Skybox       []string `toml:"skybox" yaml:"skybox"`
	PortalSkybox []string `toml:"portal_skybox" yaml:"portal_skybox"`
}

// Default returns the configuration of the stock scene.
//
// Returns:
//   - Config: a fully populated configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-exhibits",
			Width:  1920,
			Height: 1080,
			VSync:  true,
		},
		Camera: CameraConfig{
			Position:      Vec3{0, 1.7, 8},
			MoveSpeed:     0.05,
			RotationSpeed: 0.8,
			EyeHeight:     1.7,
			MapSize:       30,
			FovDegrees:    45,
			Near:          0.01,
			Far:           150,
		},
		Light: LightConfig{Position: Vec3{0, 10, 0}},
		Exhibits: ExhibitsConfig{
			Bead:          Vec3{-7.5, 1.7, -7.5},
			Cloud:         Vec3{0, 1.7, -7.5},
			CloudObstacle: Vec3{0, 2.7, -7.5},
			Mandelbox:     Vec3{7.5, 2.1, -7.5},
			Mandelbulb:    Vec3{-7.5, 2.1, 7.5},
			Sponge:        Vec3{7.5, 2.1, 7.5},
			Portal:        Vec3{-11, 1.7, 0},
			Kaleidoscope:  Vec3{11, 1.7, 0},
			Water:         Vec3{0, 0.05, 7.5},
		},
		Toggles: TogglesConfig{
			BeadSpecular: true,
			BeadDiffuse:  true,
		},
		Presets: []PresetConfig{
			{Name: "bead", Position: Vec3{-7.5, 1.7, -4.5}},
			{Name: "cloud", Position: Vec3{0, 1.7, -4.5}},
			{Name: "mandelbox", Position: Vec3{7.5, 1.7, -4.5}},
			{Name: "mandelbulb", Position: Vec3{-7.5, 1.7, 10.5}, Yaw: 180},
			{Name: "sponge", Position: Vec3{7.5, 1.7, 10.5}, Yaw: 180},
			{Name: "portal", Position: Vec3{-8, 1.7, 0}, Yaw: 90},
			{Name: "kaleidoscope", Position: Vec3{8, 1.7, 0}, Yaw: 270},
			{Name: "water", Position: Vec3{0, 1.7, 11}, Pitch: -20},
			{Name: "overview", Position: Vec3{0, 1.7, 14}},
		},
		Reset: PresetConfig{Name: "reset", Position: Vec3{0, 1.7, 3}},
	}
}

// Load reads a config file and layers it over Default. The format is chosen by file extension:
// .toml, or .yaml / .yml.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the effective configuration
//   - error: ErrUnsupportedFormat for unknown extensions, or a read / decode error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Decode(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses raw config bytes of the given format ("toml", "yaml" or "yml") over Default
// and validates the result.
//
// Parameters:
//   - data: the encoded configuration
//   - format: the encoding name
//
// Returns:
//   - Config: the effective configuration
//   - error: ErrUnsupportedFormat, a decode error, or a validation error
func Decode(data []byte, format string) (Config, error) {
	cfg := Default()
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode toml: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise surface as broken rendering at run time.
//
// Returns:
//   - error: a description of the first invalid field, or nil
func (c Config) Validate() error {
	if c.Camera.MapSize <= 0 {
		return fmt.Errorf("camera.map_size must be positive, got %v", c.Camera.MapSize)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera near/far must satisfy 0 < near < far, got %v / %v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		return fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.FovDegrees)
	}
	if len(c.Presets) > 9 {
		return fmt.Errorf("at most 9 presets can be bound to keys, got %d", len(c.Presets))
	}
	for _, faces := range [][]string{c.Assets.Skybox, c.Assets.PortalSkybox} {
		if len(faces) != 0 && len(faces) != 6 {
			return fmt.Errorf("skybox needs exactly 6 faces, got %d", len(faces))
		}
	}
	return nil
}

// EncodeTOML writes the configuration as TOML.
//
// Returns:
//   - []byte: the encoded configuration
//   - error: an encoding error
func (c Config) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode toml: %w", err)
	}
	return buf.Bytes(), nil
}

// IsDisabled reports whether the named exhibit starts switched off.
func (c Config) IsDisabled(name string) bool {
	for _, d := range c.Toggles.Disabled {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}
