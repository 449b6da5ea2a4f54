package texture

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"keyswap/fcp"
	"keyswap/timecode"
)

const (
	defaultFFmpeg      = "ffmpeg"
	defaultCodec       = "libx264"
	defaultPreset      = "ultrafast"
	defaultPixelFormat = "yuv420p"
	defaultMinDuration = 0.1

	maxErrorOutput = 500
)

// ColorPair is the start and end color of a gradient.
type ColorPair struct {
	From string
	To   string
}

// GradientPairs rotate per interval index.
var GradientPairs = []ColorPair{
	{"red", "purple"},
	{"blue", "cyan"},
	{"green", "yellow"},
	{"orange", "pink"},
	{"magenta", "blue"},
	{"cyan", "green"},
	{"yellow", "red"},
	{"purple", "magenta"},
	{"pink", "orange"},
	{"red", "blue"},
}

// Placeholder renders an animated lavfi gradient with ffmpeg.
type Placeholder struct {
	FFmpeg      string
	Codec       string
	Preset      string
	PixelFormat string
	MinDuration float64
}

func NewPlaceholder(opts Options) *Placeholder {
	p := &Placeholder{
		FFmpeg:      opts.FFmpeg,
		Codec:       opts.Codec,
		Preset:      opts.Preset,
		PixelFormat: opts.PixelFormat,
		MinDuration: opts.MinDuration,
	}
	if p.FFmpeg == "" {
		p.FFmpeg = defaultFFmpeg
	}
	if p.Codec == "" {
		p.Codec = defaultCodec
	}
	if p.Preset == "" {
		p.Preset = defaultPreset
	}
	if p.PixelFormat == "" {
		p.PixelFormat = defaultPixelFormat
	}
	if p.MinDuration <= 0 {
		p.MinDuration = defaultMinDuration
	}
	return p
}

// Args returns the ffmpeg arguments for one interval.
func (p *Placeholder) Args(iv fcp.Interval, outputPath string, f timecode.Format) []string {
	pair := GradientPairs[iv.Index%len(GradientPairs)]
	duration := max(iv.DurationSeconds(), p.MinDuration)
	source := fmt.Sprintf("gradients=s=%dx%d:c0=%s:c1=%s:speed=1:d=%.4f",
		f.Width, f.Height, pair.From, pair.To, duration)

	return []string{
		"-y",
		"-f", "lavfi",
		"-i", source,
		"-r", f.Rate(),
		"-c:v", p.Codec,
		"-pix_fmt", p.PixelFormat,
		"-preset", p.Preset,
		outputPath,
	}
}

func (p *Placeholder) Generate(ctx context.Context, iv fcp.Interval, outputPath string, f timecode.Format) (string, error) {
	cmd := exec.CommandContext(ctx, p.FFmpeg, p.Args(iv, outputPath, f)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg texture %02d: %w: %s", iv.Index, err, truncate(strings.TrimSpace(string(output)), maxErrorOutput))
	}
	return outputPath, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
