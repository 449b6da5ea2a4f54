package fcp

import (
	"fmt"
	"net/url"
	"strconv"

	"keyswap/timecode"
)

// DefaultFormatID is the format resource FCP writes first for a project.
const DefaultFormatID = "r1"

// Format reads the <format> resource with the given id. A missing resource
// or attribute falls back to timecode.DefaultFormat values.
func (d *Document) Format(id string) (timecode.Format, error) {
	f := timecode.DefaultFormat()
	if id == "" {
		id = DefaultFormatID
	}

	var node *Node
	for _, n := range d.Root.Find("format") {
		if v, _ := n.Attr("id"); v == id {
			node = n
			break
		}
	}
	if node == nil {
		return f, nil
	}

	var err error
	if v, ok := node.Attr("width"); ok {
		if f.Width, err = strconv.Atoi(v); err != nil {
			return f, fmt.Errorf("format %s: width %q: %w", id, v, err)
		}
	}
	if v, ok := node.Attr("height"); ok {
		if f.Height, err = strconv.Atoi(v); err != nil {
			return f, fmt.Errorf("format %s: height %q: %w", id, v, err)
		}
	}
	if v, ok := node.Attr("frameDuration"); ok {
		if f, err = f.WithFrameDuration(v); err != nil {
			return f, fmt.Errorf("format %s: %w", id, err)
		}
	}
	return f, nil
}

// AssetSourcePath resolves the media file behind an asset. The first
// media-rep src URL is decoded to a filesystem path. ok is false when the
// asset or its media-rep is missing.
func (d *Document) AssetSourcePath(assetID string) (path string, ok bool) {
	for _, asset := range d.Root.Find("asset") {
		if v, _ := asset.Attr("id"); v != assetID {
			continue
		}
		rep := asset.Child("media-rep")
		if rep == nil {
			continue
		}
		p := decodeSrc(rep.AttrOr("src", ""))
		return p, p != ""
	}
	return "", false
}

func decodeSrc(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		if p, err := url.PathUnescape(src); err == nil {
			return p
		}
		return src
	}
	return u.Path
}
