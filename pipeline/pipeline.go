// Package pipeline runs a full conversion: parse the FCPXML project,
// generate replacement textures, build and write the MLT composite, and
// optionally render it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"keyswap/fcp"
	"keyswap/keying"
	"keyswap/logging"
	"keyswap/mlt"
	"keyswap/render"
	"keyswap/texture"
	"keyswap/timecode"
)

var (
	// ErrSourceUnresolved means neither an override nor the asset's
	// media-rep gave a source video path. Nothing is written.
	ErrSourceUnresolved = errors.New("could not determine source video path")
	// ErrOutputLocked means another run holds the output file.
	ErrOutputLocked = errors.New("output is locked by another run")
)

// Options describe a single run.
type Options struct {
	ProjectPath string
	AssetID     string
	ClipName    string
	FormatID    string
	// SourceVideo overrides the asset's media-rep path when set.
	SourceVideo string

	OutputPath string
	TextureDir string
	Title      string
	Version    string

	DryRun bool
	Keying keying.Params

	// Generator defaults to texture.None.
	Generator texture.Generator
	// Renderer is only used when RenderOutput is set.
	Renderer     render.Renderer
	RenderOutput string

	// OnTexture is called after each texture attempt, in interval order.
	OnTexture func(done, total int, iv fcp.Interval, path string)
}

// Result summarizes what a run produced.
type Result struct {
	RunID        string
	Format       timecode.Format
	SourcePath   string
	Intervals    []fcp.Interval
	TotalFrames  int
	TexturePaths []string
	// Fallbacks counts intervals that ended up on a palette color.
	Fallbacks  int
	Document   *mlt.Document
	OutputPath string
	// RenderErr is set when the render failed. The composite is still valid.
	RenderErr    error
	RenderOutput string
}

// Rendered reports whether a render was attempted and succeeded.
func (r *Result) Rendered() bool {
	return r.RenderOutput != "" && r.RenderErr == nil
}

type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Pipeline {
	if opts.Generator == nil {
		opts.Generator = texture.None{}
	}
	return &Pipeline{opts: opts, logger: logging.WithComponent(logger, "pipeline")}
}

// Run executes the pipeline. Unresolvable input and structural faults
// abort; failed textures and a failed render are recorded in the Result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	logger := p.logger.With(slog.String("run_id", res.RunID))
	started := time.Now()

	doc, err := fcp.ParseFCPXML(p.opts.ProjectPath)
	if err != nil {
		return nil, err
	}
	logger.Info("parsed project", slog.String("path", p.opts.ProjectPath))

	if res.Format, err = doc.Format(p.opts.FormatID); err != nil {
		return nil, err
	}
	logger.Info("project format",
		slog.Int("width", res.Format.Width),
		slog.Int("height", res.Format.Height),
		slog.String("rate", res.Format.Rate()),
		slog.String("fps", fmt.Sprintf("%.3f", res.Format.FPS())),
	)

	if res.SourcePath, err = p.resolveSource(doc); err != nil {
		return nil, err
	}
	logger.Info("source video", slog.String("path", res.SourcePath))

	res.Intervals, err = doc.Extract(fcp.ExtractOptions{AssetID: p.opts.AssetID, ClipName: p.opts.ClipName})
	if err != nil {
		return nil, err
	}
	res.TotalFrames = fcp.TotalFrames(res.Intervals, res.Format)
	for _, iv := range res.Intervals {
		logger.Debug("interval",
			slog.Int("index", iv.Index),
			slog.Int("media_start_frames", iv.MediaStartFrames(res.Format)),
			slog.Int("duration_frames", iv.DurationFrames(res.Format)),
			slog.String("parent", iv.ParentName),
		)
	}
	logger.Info("extracted intervals",
		slog.Int("count", len(res.Intervals)),
		slog.Int("total_frames", res.TotalFrames),
		slog.String("total", timecode.Timecode(res.TotalFrames, res.Format)),
	)

	if p.opts.DryRun {
		logger.Info("dry run complete")
		return res, nil
	}

	if res.TexturePaths, err = p.generateTextures(ctx, logger, res); err != nil {
		return nil, err
	}

	builder := mlt.NewBuilder(res.Format, res.SourcePath, p.opts.Keying)
	if p.opts.Title != "" {
		builder.Title = p.opts.Title
	}
	if p.opts.Version != "" {
		builder.Version = p.opts.Version
	}
	if res.Document, err = builder.Build(res.Intervals, res.TexturePaths); err != nil {
		return nil, err
	}

	if err := p.writeAndRender(ctx, logger, res); err != nil {
		return nil, err
	}

	logger.Info("run complete",
		slog.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
		slog.Int("fallbacks", res.Fallbacks),
	)
	return res, nil
}

func (p *Pipeline) resolveSource(doc *fcp.Document) (string, error) {
	if p.opts.SourceVideo != "" {
		return p.opts.SourceVideo, nil
	}
	assetID := p.opts.AssetID
	if assetID == "" {
		assetID = fcp.DefaultAssetID
	}
	if path, ok := doc.AssetSourcePath(assetID); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w for asset %s; set a source video override", ErrSourceUnresolved, assetID)
}

// generateTextures runs the generator one interval at a time. A failed
// interval keeps an empty path so the builder falls back to a color.
func (p *Pipeline) generateTextures(ctx context.Context, logger *slog.Logger, res *Result) ([]string, error) {
	paths := make([]string, len(res.Intervals))
	_, skip := p.opts.Generator.(texture.None)
	if skip {
		logger.Info("texture generation skipped; using color fallbacks")
	} else if len(res.Intervals) > 0 {
		if err := os.MkdirAll(p.opts.TextureDir, 0o755); err != nil {
			return nil, fmt.Errorf("create texture directory: %w", err)
		}
		logger.Info("generating textures", slog.String("dir", p.opts.TextureDir))
	}

	for i, iv := range res.Intervals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := texture.OutputPath(p.opts.TextureDir, iv.Index)
		path, err := p.opts.Generator.Generate(ctx, iv, out, res.Format)
		switch {
		case err != nil:
			logger.Warn("texture generation failed; using color fallback",
				slog.Int("index", iv.Index),
				slog.String("color", mlt.FallbackColor(iv.Index)),
				slog.Any("error", err),
			)
			path = ""
		case path == "" && !skip:
			logger.Debug("generator produced no file", slog.Int("index", iv.Index))
		case path != "":
			logger.Debug("texture generated", slog.Int("index", iv.Index), slog.String("path", path))
		}
		if path == "" {
			res.Fallbacks++
		}
		paths[i] = path
		if p.opts.OnTexture != nil {
			p.opts.OnTexture(i+1, len(res.Intervals), iv, path)
		}
	}
	return paths, nil
}

// writeAndRender holds an exclusive lock on the output while writing it
// and while melt reads it.
func (p *Pipeline) writeAndRender(ctx context.Context, logger *slog.Logger, res *Result) error {
	res.OutputPath = p.opts.OutputPath
	if dir := filepath.Dir(res.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	lockPath := res.OutputPath + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrOutputLocked, res.OutputPath)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	if err := mlt.WriteFile(res.OutputPath, res.Document); err != nil {
		return err
	}
	logger.Info("wrote composite",
		slog.String("path", res.OutputPath),
		slog.String("size", fileSize(res.OutputPath)),
		slog.Int("producers", len(res.Document.Producers)),
	)

	if p.opts.RenderOutput == "" || p.opts.Renderer == nil {
		return nil
	}
	res.RenderOutput = p.opts.RenderOutput
	logger.Info("rendering", slog.String("output", res.RenderOutput))
	if err := p.opts.Renderer.Render(ctx, res.OutputPath, res.RenderOutput); err != nil {
		res.RenderErr = err
		logger.Warn("render failed; composite left in place", slog.Any("error", err))
		return nil
	}
	logger.Info("render complete",
		slog.String("output", res.RenderOutput),
		slog.String("size", fileSize(res.RenderOutput)),
	)
	return nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	return humanize.Bytes(uint64(info.Size()))
}
