package fcp

import (
	"fmt"
	"math/big"
	"sort"

	"golang.org/x/text/unicode/norm"

	"keyswap/timecode"
)

const (
	DefaultAssetID  = "r8"
	DefaultClipName = "Unkillible Hoodie A"
)

// ExtractOptions selects which clips count as keyed footage.
type ExtractOptions struct {
	// AssetID is the asset every matching clip must reference through a
	// direct <video ref> child.
	AssetID string
	// ClipName is compared to the clip's name after NFC normalization.
	ClipName string
}

func (o ExtractOptions) withDefaults() ExtractOptions {
	if o.AssetID == "" {
		o.AssetID = DefaultAssetID
	}
	if o.ClipName == "" {
		o.ClipName = DefaultClipName
	}
	return o
}

// Interval is one matched clip. Times are exact seconds.
type Interval struct {
	Index int
	// TimelineOffset is the clip's offset attribute as found in the source
	// project. It is kept for reporting and never used for placement.
	TimelineOffset *big.Rat
	MediaStart     *big.Rat
	Duration       *big.Rat
	ParentName     string
}

func (iv Interval) MediaStartFrames(f timecode.Format) int {
	return timecode.FrameCount(iv.MediaStart, f)
}

// DurationFrames is the truncated frame length; non-positive durations
// collapse to zero.
func (iv Interval) DurationFrames(f timecode.Format) int {
	n := timecode.FrameCount(iv.Duration, f)
	if n < 0 {
		return 0
	}
	return n
}

func (iv Interval) DurationSeconds() float64 {
	return timecode.Float(iv.Duration)
}

// Extract finds every clip named opts.ClipName that references opts.AssetID,
// at any depth, and returns them sorted by media start. Ties keep document
// order and Index is renumbered 0..N-1 after the sort.
func (d *Document) Extract(opts ExtractOptions) ([]Interval, error) {
	opts = opts.withDefaults()
	target := norm.NFC.String(opts.ClipName)

	var (
		out     []Interval
		walkErr error
	)
	d.Root.Walk(func(n *Node, ancestors []*Node) {
		if walkErr != nil || n.Name() != "clip" {
			return
		}
		name, _ := n.Attr("name")
		if norm.NFC.String(name) != target {
			return
		}
		if !referencesAsset(n, opts.AssetID) {
			return
		}

		iv, err := readInterval(n)
		if err != nil {
			walkErr = fmt.Errorf("clip %q #%d: %w", name, len(out), err)
			return
		}
		iv.Index = len(out)
		iv.ParentName = parentName(n, ancestors)
		out = append(out, iv)
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MediaStart.Cmp(out[j].MediaStart) < 0
	})
	for i := range out {
		out[i].Index = i
	}
	return out, nil
}

func referencesAsset(clip *Node, assetID string) bool {
	for _, v := range clip.ChildrenNamed("video") {
		if ref, _ := v.Attr("ref"); ref == assetID {
			return true
		}
	}
	return false
}

func readInterval(n *Node) (Interval, error) {
	var iv Interval
	var err error
	if iv.TimelineOffset, err = timecode.Parse(n.AttrOr("offset", "0s")); err != nil {
		return iv, fmt.Errorf("offset: %w", err)
	}
	if iv.MediaStart, err = timecode.Parse(n.AttrOr("start", "0s")); err != nil {
		return iv, fmt.Errorf("start: %w", err)
	}
	if iv.Duration, err = timecode.Parse(n.AttrOr("duration", "0s")); err != nil {
		return iv, fmt.Errorf("duration: %w", err)
	}
	return iv, nil
}

// parentName is the name of the closest named ancestor, or the clip's own
// name at top level.
func parentName(n *Node, ancestors []*Node) string {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if v, ok := ancestors[i].Attr("name"); ok && v != "" {
			return v
		}
	}
	return n.AttrOr("name", "")
}

// TotalFrames is the sum of each interval's own truncated frame count.
func TotalFrames(intervals []Interval, f timecode.Format) int {
	total := 0
	for _, iv := range intervals {
		total += iv.DurationFrames(f)
	}
	return total
}
