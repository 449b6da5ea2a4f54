package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubMelt(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "melt")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestArgs(t *testing.T) {
	m := NewMelt()
	assert.Equal(t, []string{
		"hoodie.mlt",
		"-consumer", "avformat:output.mp4",
		"vcodec=libx264",
		"acodec=aac",
		"preset=medium",
		"crf=23",
	}, m.Args("hoodie.mlt", "output.mp4"))
	assert.Equal(t, "melt hoodie.mlt -consumer avformat:output.mp4 vcodec=libx264 acodec=aac preset=medium crf=23", m.Command("hoodie.mlt", "output.mp4"))
}

func TestRenderSuccess(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.mp4")
	m := NewMelt()
	// The stub writes whatever follows "avformat:" so the test can see the
	// consumer target was passed through.
	m.Binary = stubMelt(t, `target=$(echo "$3" | sed 's/^avformat://')`+"\necho rendered > \"$target\"\n")

	require.NoError(t, m.Render(context.Background(), filepath.Join(dir, "in.mlt"), out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "rendered\n", string(data))
}

func TestRenderFailure(t *testing.T) {
	var script strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&script, "echo 'progress %d'\n", i)
	}
	script.WriteString("echo 'Failed to load \"in.mlt\"' >&2\nexit 1\n")

	m := NewMelt()
	m.Binary = stubMelt(t, script.String())
	err := m.Render(context.Background(), "in.mlt", "out.mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load")
	assert.NotContains(t, err.Error(), "progress 5\n")
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "c\nd", lastLines("a\nb\nc\nd\n", 2))
	assert.Equal(t, "a", lastLines("a", 5))
}
