package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"keyswap/keying"
	"keyswap/render"
	"keyswap/texture"
)

//go:embed sample_config.toml
var sampleConfig string

// Input selects what to read from the FCPXML project.
type Input struct {
	AssetID     string `toml:"asset_id"`
	ClipName    string `toml:"clip_name"`
	FormatID    string `toml:"format_id"`
	SourceVideo string `toml:"source_video"`
}

// Output controls where the composite and generated textures are written.
type Output struct {
	Path       string `toml:"path"`
	TextureDir string `toml:"texture_dir"`
	Title      string `toml:"title"`
	MLTVersion string `toml:"mlt_version"`
}

// Textures configures replacement content generation.
type Textures struct {
	Generator   string  `toml:"generator"`
	FFmpeg      string  `toml:"ffmpeg"`
	Codec       string  `toml:"codec"`
	Preset      string  `toml:"preset"`
	PixelFormat string  `toml:"pixel_format"`
	MinDuration float64 `toml:"min_duration"`
}

// Render configures the optional melt pass.
type Render struct {
	Enabled bool   `toml:"enabled"`
	Melt    string `toml:"melt"`
	Output  string `toml:"output"`
	VCodec  string `toml:"vcodec"`
	ACodec  string `toml:"acodec"`
	Preset  string `toml:"preset"`
	CRF     int    `toml:"crf"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for keyswap.
type Config struct {
	Input    Input         `toml:"input"`
	Output   Output        `toml:"output"`
	Textures Textures      `toml:"textures"`
	Keying   keying.Params `toml:"keying"`
	Render   Render        `toml:"render"`
	Logging  Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the user config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. It returns the
// resolved path and whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes and validates c. Call it again after applying flag
// overrides.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// TextureOptions maps the [textures] section onto generator options.
func (c *Config) TextureOptions() texture.Options {
	return texture.Options{
		FFmpeg:      c.Textures.FFmpeg,
		Codec:       c.Textures.Codec,
		Preset:      c.Textures.Preset,
		PixelFormat: c.Textures.PixelFormat,
		MinDuration: c.Textures.MinDuration,
	}
}

// Melt builds the renderer described by the [render] section.
func (c *Config) Melt() *render.Melt {
	return &render.Melt{
		Binary: c.Render.Melt,
		VCodec: c.Render.VCodec,
		ACodec: c.Render.ACodec,
		Preset: c.Render.Preset,
		CRF:    c.Render.CRF,
	}
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
