package config

import (
	"errors"
	"fmt"
	"strings"

	"keyswap/logging"
	"keyswap/texture"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateTextures(); err != nil {
		return err
	}
	if err := c.Keying.Validate(); err != nil {
		return fmt.Errorf("keying: %w", err)
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInput() error {
	if c.Input.AssetID == "" {
		return errors.New("input.asset_id must be set")
	}
	if strings.TrimSpace(c.Input.ClipName) == "" {
		return errors.New("input.clip_name must be set")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.Path == "" {
		return errors.New("output.path must be set")
	}
	if c.Output.TextureDir == "" && c.Textures.Generator == texture.PlaceholderName {
		return errors.New("output.texture_dir must be set for the placeholder generator")
	}
	return nil
}

func (c *Config) validateTextures() error {
	if _, err := texture.New(c.Textures.Generator, c.TextureOptions()); err != nil {
		return fmt.Errorf("textures.generator: %w", err)
	}
	if c.Textures.MinDuration < 0 {
		return fmt.Errorf("textures.min_duration must be >= 0 (got %v)", c.Textures.MinDuration)
	}
	return nil
}

func (c *Config) validateRender() error {
	if !c.Render.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Render.Melt) == "" {
		return errors.New("render.melt must be set when rendering is enabled")
	}
	if c.Render.Output == "" {
		return errors.New("render.output must be set when rendering is enabled")
	}
	if c.Render.CRF < 0 || c.Render.CRF > 51 {
		return fmt.Errorf("render.crf must be between 0 and 51 (got %d)", c.Render.CRF)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
		return nil
	}
	return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
}
