package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"keyswap/fcp"
	"keyswap/keying"
	"keyswap/pipeline"
	"keyswap/render"
	"keyswap/texture"
)

type convertFlags struct {
	output       string
	outputDir    string
	dryRun       bool
	generator    string
	sourceVideo  string
	assetID      string
	clipName     string
	formatID     string
	keyColor     string
	deltaH       float64
	deltaC       float64
	deltaI       float64
	slope        float64
	edge         keying.Edge
	render       bool
	renderOutput string
	noProgress   bool
}

func newConvertCommand(a *app) *cobra.Command {
	flags := convertFlags{edge: keying.EdgeThin}

	cmd := &cobra.Command{
		Use:   "convert <project.fcpxml>",
		Short: "Build an MLT composite from an FCPXML project",
		Long: `Extract the keyed clips from an FCPXML project, generate replacement textures,
and write an MLT project with the clips laid end to end over the textures.
With --render the project is then rendered through melt.`,
		Example: `  keyswap convert Info.fcpxml -o hoodie.mlt
  keyswap convert Info.fcpxml --generator none --source-video ~/footage/A001.mov
  keyswap convert Info.fcpxml --edge normal --delta-i 0.7 --render --render-output final.mp4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a); err != nil {
				return err
			}
			return a.runConvert(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "hoodie.mlt", "Output MLT path")
	f.StringVar(&flags.outputDir, "output-dir", "./textures", "Directory for generated textures")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Parse and list clips without writing anything")
	f.StringVar(&flags.generator, "generator", texture.PlaceholderName, "Texture generator (placeholder, none)")
	f.StringVar(&flags.sourceVideo, "source-video", "", "Override the source video path")
	f.StringVar(&flags.assetID, "asset-id", fcp.DefaultAssetID, "FCPXML asset id of the keyed footage")
	f.StringVar(&flags.clipName, "clip-name", fcp.DefaultClipName, "Clip name to match")
	f.StringVar(&flags.formatID, "format-id", fcp.DefaultFormatID, "Format resource id")
	f.StringVar(&flags.keyColor, "key-color", keying.DefaultKeyColor, "Key color as #rrggbb")
	f.Float64Var(&flags.deltaH, "delta-h", keying.DefaultDeltaH, "Hue delta")
	f.Float64Var(&flags.deltaC, "delta-c", keying.DefaultDeltaC, "Chroma delta")
	f.Float64Var(&flags.deltaI, "delta-i", keying.DefaultDeltaI, "Intensity delta")
	f.Float64Var(&flags.slope, "slope", keying.DefaultSlope, "Edge slope")
	f.Var(&flags.edge, "edge", "Edge mode: hard, fat, normal, thin, slope or a raw value")
	f.BoolVar(&flags.render, "render", false, "Render the result with melt")
	f.StringVar(&flags.renderOutput, "render-output", "output.mp4", "Rendered media path")
	f.BoolVar(&flags.noProgress, "no-progress", false, "Disable the texture progress bar")
	return cmd
}

// apply copies explicitly set flags over the loaded configuration.
func (fl convertFlags) apply(cmd *cobra.Command, a *app) error {
	changed := cmd.Flags().Changed
	c := a.cfg
	if changed("output") {
		c.Output.Path = fl.output
	}
	if changed("output-dir") {
		c.Output.TextureDir = fl.outputDir
	}
	if changed("generator") {
		c.Textures.Generator = fl.generator
	}
	if changed("source-video") {
		c.Input.SourceVideo = fl.sourceVideo
	}
	if changed("asset-id") {
		c.Input.AssetID = fl.assetID
	}
	if changed("clip-name") {
		c.Input.ClipName = fl.clipName
	}
	if changed("format-id") {
		c.Input.FormatID = fl.formatID
	}
	if changed("key-color") {
		c.Keying.KeyColor = fl.keyColor
	}
	if changed("delta-h") {
		c.Keying.DeltaH = fl.deltaH
	}
	if changed("delta-c") {
		c.Keying.DeltaC = fl.deltaC
	}
	if changed("delta-i") {
		c.Keying.DeltaI = fl.deltaI
	}
	if changed("slope") {
		c.Keying.Slope = fl.slope
	}
	if changed("edge") {
		c.Keying.Edge = fl.edge
	}
	if changed("render") {
		c.Render.Enabled = fl.render
	}
	if changed("render-output") {
		c.Render.Output = fl.renderOutput
	}
	return c.Finalize()
}

func (a *app) runConvert(cmd *cobra.Command, project string, fl convertFlags) error {
	cfg := a.cfg
	gen, err := texture.New(cfg.Textures.Generator, cfg.TextureOptions())
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		ProjectPath: project,
		AssetID:     cfg.Input.AssetID,
		ClipName:    cfg.Input.ClipName,
		FormatID:    cfg.Input.FormatID,
		SourceVideo: cfg.Input.SourceVideo,
		OutputPath:  cfg.Output.Path,
		TextureDir:  cfg.Output.TextureDir,
		Title:       cfg.Output.Title,
		Version:     cfg.Output.MLTVersion,
		DryRun:      fl.dryRun,
		Keying:      cfg.Keying,
		Generator:   gen,
	}
	if cfg.Render.Enabled {
		opts.Renderer = cfg.Melt()
		opts.RenderOutput = cfg.Render.Output
	}

	var bar *progressbar.ProgressBar
	if _, none := gen.(texture.None); !none && !fl.dryRun && !fl.noProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		opts.OnTexture = func(done, total int, iv fcp.Interval, path string) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("Textures"),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Add(1)
		}
	}

	res, err := pipeline.New(opts, a.logger).Run(cmd.Context())
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Format: %s\n", res.Format)
	fmt.Fprintf(out, "Source: %s\n", res.SourcePath)
	writeIntervalTable(out, res.Intervals, res.Format)
	if fl.dryRun {
		fmt.Fprintln(out, "Dry run complete.")
		return nil
	}
	if res.Fallbacks > 0 {
		fmt.Fprintf(out, "Color fallbacks: %d of %d\n", res.Fallbacks, len(res.Intervals))
	}
	fmt.Fprintf(out, "Written: %s\n", res.OutputPath)
	if res.RenderOutput != "" {
		if res.RenderErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: render failed: %v\n", res.RenderErr)
			if m, ok := opts.Renderer.(*render.Melt); ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "  Command: %s\n", m.Command(res.OutputPath, res.RenderOutput))
			}
		} else {
			fmt.Fprintf(out, "Rendered: %s\n", res.RenderOutput)
		}
	}
	return nil
}
