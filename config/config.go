package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pbr-viewer/shading"
)

// Asset file names relative to AssetDir.
const (
	DefaultDiffuseMap  = "env/Alexs_Apt_2k-diffuse-RGBM.png"
	DefaultSpecularMap = "env/Alexs_Apt_2k-specular-RGBM.png"
	DefaultBRDFLUT     = "ggx-brdf-integrated.png"
)

// Config is the viewer configuration file.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	AssetDir    string `yaml:"asset_dir"`
	DiffuseMap  string `yaml:"diffuse_map"`
	SpecularMap string `yaml:"specular_map"`
	BRDFLUT     string `yaml:"brdf_lut"`
	// Mesh optionally replaces the sphere with a glTF model.
	Mesh string `yaml:"mesh"`
	// MaxTextureSize downscales environment maps on load. Zero keeps them.
	MaxTextureSize int `yaml:"max_texture_size"`

	Settings Settings `yaml:"settings"`
}

func Default() Config {
	return Config{
		Width:    800,
		Height:   600,
		AssetDir: "assets",
		Settings: DefaultSettings(),
	}
}

// Load reads a YAML file over the defaults, so keys absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid size %dx%d", c.Width, c.Height)
	}
	if c.MaxTextureSize < 0 {
		return fmt.Errorf("config: negative max_texture_size %d", c.MaxTextureSize)
	}
	return c.Settings.Validate()
}

// Flags holds CLI flag values that override the file.
type Flags struct {
	Width    int
	Height   int
	AssetDir string
	Mesh     string
	Lighting string
	Tone     string
}

// Resolve applies non-empty flags, then fills empty asset paths from
// AssetDir. Relative asset paths are resolved against AssetDir.
func (c *Config) Resolve(flags Flags) error {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.AssetDir != "" {
		c.AssetDir = flags.AssetDir
	}
	if flags.Mesh != "" {
		c.Mesh = flags.Mesh
	}
	if flags.Lighting != "" {
		mode, err := ParseLighting(flags.Lighting)
		if err != nil {
			return err
		}
		c.Settings.SelectLighting(mode)
	}
	if flags.Tone != "" {
		tone, err := ParseToneMapping(flags.Tone)
		if err != nil {
			return err
		}
		c.Settings.SelectToneMapping(tone)
	}

	c.DiffuseMap = c.assetPath(c.DiffuseMap, DefaultDiffuseMap)
	c.SpecularMap = c.assetPath(c.SpecularMap, DefaultSpecularMap)
	c.BRDFLUT = c.assetPath(c.BRDFLUT, DefaultBRDFLUT)
	return c.Validate()
}

func (c *Config) assetPath(path, def string) string {
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) || c.AssetDir == "" {
		return path
	}
	return filepath.Join(c.AssetDir, path)
}

func ParseLighting(s string) (shading.LightingMode, error) {
	switch strings.ToLower(s) {
	case "brdf":
		return shading.LightingBRDF, nil
	case "ibl":
		return shading.LightingIBL, nil
	}
	return 0, fmt.Errorf("config: unknown lighting mode %q (want brdf or ibl)", s)
}

func ParseToneMapping(s string) (shading.ToneMapping, error) {
	switch strings.ToLower(s) {
	case "aces":
		return shading.ToneACES, nil
	case "reinhard":
		return shading.ToneReinhard, nil
	}
	return 0, fmt.Errorf("config: unknown tone mapping %q (want aces or reinhard)", s)
}
