package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Input.AssetID = strings.TrimSpace(c.Input.AssetID)
	c.Input.FormatID = strings.TrimSpace(c.Input.FormatID)

	var err error
	if c.Input.SourceVideo, err = expandPath(c.Input.SourceVideo); err != nil {
		return fmt.Errorf("input.source_video: %w", err)
	}
	if c.Output.Path, err = expandPath(c.Output.Path); err != nil {
		return fmt.Errorf("output.path: %w", err)
	}
	if c.Output.TextureDir, err = expandPath(c.Output.TextureDir); err != nil {
		return fmt.Errorf("output.texture_dir: %w", err)
	}
	if c.Render.Output, err = expandPath(c.Render.Output); err != nil {
		return fmt.Errorf("render.output: %w", err)
	}
	if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}

	c.Textures.Generator = strings.ToLower(strings.TrimSpace(c.Textures.Generator))
	c.Keying.KeyColor = strings.TrimSpace(c.Keying.KeyColor)
	if c.Keying.KeyColor != "" && !strings.HasPrefix(c.Keying.KeyColor, "#") {
		c.Keying.KeyColor = "#" + c.Keying.KeyColor
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}
