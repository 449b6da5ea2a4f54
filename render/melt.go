// Package render turns a written MLT document into a media file with melt.
package render

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	DefaultMelt   = "melt"
	DefaultVCodec = "libx264"
	DefaultACodec = "aac"
	DefaultPreset = "medium"
	DefaultCRF    = 23
)

// Renderer produces outputPath from the MLT document at documentPath.
type Renderer interface {
	Render(ctx context.Context, documentPath, outputPath string) error
}

// Melt renders through melt's avformat consumer.
type Melt struct {
	Binary string
	VCodec string
	ACodec string
	Preset string
	CRF    int
}

func NewMelt() *Melt {
	return &Melt{
		Binary: DefaultMelt,
		VCodec: DefaultVCodec,
		ACodec: DefaultACodec,
		Preset: DefaultPreset,
		CRF:    DefaultCRF,
	}
}

// Args returns the melt command line without the binary.
func (m *Melt) Args(documentPath, outputPath string) []string {
	return []string{
		documentPath,
		"-consumer", "avformat:" + outputPath,
		"vcodec=" + m.VCodec,
		"acodec=" + m.ACodec,
		"preset=" + m.Preset,
		"crf=" + strconv.Itoa(m.CRF),
	}
}

// Command renders the full invocation for logs.
func (m *Melt) Command(documentPath, outputPath string) string {
	return strings.Join(append([]string{m.binary()}, m.Args(documentPath, outputPath)...), " ")
}

func (m *Melt) Render(ctx context.Context, documentPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, m.binary(), m.Args(documentPath, outputPath)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("melt render: %w: %s", err, lastLines(string(output), 10))
	}
	return nil
}

func (m *Melt) binary() string {
	if m.Binary == "" {
		return DefaultMelt
	}
	return m.Binary
}

// lastLines keeps the tail of melt's progress-heavy output.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
