package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"keyswap/fcp"
	"keyswap/timecode"
)

func newInspectCommand(a *app) *cobra.Command {
	var assetID, clipName, formatID string

	cmd := &cobra.Command{
		Use:   "inspect <project.fcpxml>",
		Short: "List the keyed clips found in an FCPXML project",
		Long: `Parse the project and print every matching clip in media start order with
frame positions at the project frame rate. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("asset-id") {
				a.cfg.Input.AssetID = assetID
			}
			if cmd.Flags().Changed("clip-name") {
				a.cfg.Input.ClipName = clipName
			}
			if cmd.Flags().Changed("format-id") {
				a.cfg.Input.FormatID = formatID
			}

			doc, err := fcp.ParseFCPXML(args[0])
			if err != nil {
				return err
			}
			f, err := doc.Format(a.cfg.Input.FormatID)
			if err != nil {
				return err
			}
			intervals, err := doc.Extract(fcp.ExtractOptions{AssetID: a.cfg.Input.AssetID, ClipName: a.cfg.Input.ClipName})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Format: %s\n", f)
			if src, ok := doc.AssetSourcePath(a.cfg.Input.AssetID); ok {
				fmt.Fprintf(out, "Source: %s\n", src)
			} else {
				fmt.Fprintf(out, "Source: asset %s has no media path\n", a.cfg.Input.AssetID)
			}
			writeIntervalTable(out, intervals, f)
			return nil
		},
	}

	cmd.Flags().StringVar(&assetID, "asset-id", fcp.DefaultAssetID, "FCPXML asset id of the keyed footage")
	cmd.Flags().StringVar(&clipName, "clip-name", fcp.DefaultClipName, "Clip name to match")
	cmd.Flags().StringVar(&formatID, "format-id", fcp.DefaultFormatID, "Format resource id")
	return cmd
}

func writeIntervalTable(w io.Writer, intervals []fcp.Interval, f timecode.Format) {
	if len(intervals) == 0 {
		fmt.Fprintln(w, "No matching clips found.")
		return
	}

	rows := make([][]string, 0, len(intervals))
	totalSeconds := 0.0
	for _, iv := range intervals {
		start := iv.MediaStartFrames(f)
		frames := iv.DurationFrames(f)
		totalSeconds += iv.DurationSeconds()
		rows = append(rows, []string{
			fmt.Sprintf("%02d", iv.Index),
			humanize.Comma(int64(start)),
			timecode.Timecode(start, f),
			humanize.Comma(int64(frames)),
			fmt.Sprintf("%.3fs", iv.DurationSeconds()),
			iv.ParentName,
		})
	}
	total := fcp.TotalFrames(intervals, f)
	footer := []string{
		strconv.Itoa(len(intervals)),
		"",
		"",
		humanize.Comma(int64(total)),
		fmt.Sprintf("%.3fs", totalSeconds),
		timecode.Timecode(total, f),
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Start", "Timecode", "Frames", "Duration", "Parent"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight, alignLeft},
		footer,
	))
}
