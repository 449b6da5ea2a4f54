package config

import (
	"keyswap/fcp"
	"keyswap/keying"
	"keyswap/mlt"
	"keyswap/render"
	"keyswap/texture"
)

const (
	defaultConfigPath  = "~/.config/keyswap/config.toml"
	projectConfigName  = "keyswap.toml"
	defaultOutputPath  = "hoodie.mlt"
	defaultTextureDir  = "./textures"
	defaultRenderPath  = "output.mp4"
	defaultFFmpeg      = "ffmpeg"
	defaultCodec       = "libx264"
	defaultPreset      = "ultrafast"
	defaultPixelFormat = "yuv420p"
	defaultMinDuration = 0.1
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Input: Input{
			AssetID:  fcp.DefaultAssetID,
			ClipName: fcp.DefaultClipName,
			FormatID: fcp.DefaultFormatID,
		},
		Output: Output{
			Path:       defaultOutputPath,
			TextureDir: defaultTextureDir,
			Title:      mlt.DefaultTitle,
			MLTVersion: mlt.DefaultVersion,
		},
		Textures: Textures{
			Generator:   texture.PlaceholderName,
			FFmpeg:      defaultFFmpeg,
			Codec:       defaultCodec,
			Preset:      defaultPreset,
			PixelFormat: defaultPixelFormat,
			MinDuration: defaultMinDuration,
		},
		Keying: keying.Default(),
		Render: Render{
			Enabled: false,
			Melt:    render.DefaultMelt,
			Output:  defaultRenderPath,
			VCodec:  render.DefaultVCodec,
			ACodec:  render.DefaultACodec,
			Preset:  render.DefaultPreset,
			CRF:     render.DefaultCRF,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
