// Package texture produces replacement content clips for the texture track.
package texture

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"keyswap/fcp"
	"keyswap/timecode"
)

// ErrUnknownGenerator is returned by New for an unregistered name.
var ErrUnknownGenerator = errors.New("unknown texture generator")

const (
	PlaceholderName = "placeholder"
	NoneName        = "none"
)

// Generator renders replacement content for one interval. An empty path
// with a nil error means the generator chose not to produce a file. Callers
// treat either an empty path or an error as "use the color fallback".
type Generator interface {
	Generate(ctx context.Context, iv fcp.Interval, outputPath string, f timecode.Format) (string, error)
}

// Options configure the generators New can build.
type Options struct {
	FFmpeg      string
	Codec       string
	Preset      string
	PixelFormat string
	MinDuration float64
}

// New returns the generator registered under name.
func New(name string, opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PlaceholderName:
		return NewPlaceholder(opts), nil
	case NoneName:
		return None{}, nil
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownGenerator, name, strings.Join(Names(), ", "))
}

// Names lists the generator names New accepts.
func Names() []string {
	names := []string{PlaceholderName, NoneName}
	sort.Strings(names)
	return names
}

// OutputPath is where the texture for interval index is written.
func OutputPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("texture_%02d.mp4", index))
}

// None skips generation so every interval uses its fallback color.
type None struct{}

func (None) Generate(context.Context, fcp.Interval, string, timecode.Format) (string, error) {
	return "", nil
}
