package mlt

import (
	"fmt"
	"strconv"

	"keyswap/fcp"
	"keyswap/keying"
	"keyswap/timecode"
)

const (
	DefaultTitle   = "Hoodie Replacement"
	DefaultVersion = "7.22.0"

	tractorTitle = "Shotcut version 25.01.25"
)

// Palette colors stand in for replacement content that was never generated.
var Palette = []string{
	"#ff0000", "#00ff00", "#0000ff", "#ff00ff", "#ffff00",
	"#00ffff", "#ff8800", "#8800ff", "#ff0088", "#0088ff",
}

// FallbackColor is the solid color used for interval i without a texture.
func FallbackColor(i int) string {
	return Palette[i%len(Palette)]
}

// Placement is where an interval lands on the rebuilt timeline.
type Placement struct {
	Index int
	// Start is the output frame the interval begins on.
	Start int
	// Length is the interval's own truncated frame count.
	Length int
	// In and Out address the shared source media.
	In  int
	Out int
}

// Repack lays intervals end to end in the given order, ignoring their
// original timeline offsets. It returns one placement per interval and the
// total frame count.
func Repack(intervals []fcp.Interval, f timecode.Format) ([]Placement, int) {
	placements := make([]Placement, len(intervals))
	cursor := 0
	for i, iv := range intervals {
		length := iv.DurationFrames(f)
		in := iv.MediaStartFrames(f)
		placements[i] = Placement{
			Index:  i,
			Start:  cursor,
			Length: length,
			In:     in,
			Out:    in + length - 1,
		}
		cursor += length
	}
	return placements, cursor
}

// Builder turns intervals into a three track composite: black background,
// replacement textures, keyed source footage on top.
type Builder struct {
	Format     timecode.Format
	SourcePath string
	Keying     keying.Params
	Title      string
	Version    string
}

func NewBuilder(f timecode.Format, sourcePath string, params keying.Params) *Builder {
	return &Builder{
		Format:     f,
		SourcePath: sourcePath,
		Keying:     params,
		Title:      DefaultTitle,
		Version:    DefaultVersion,
	}
}

// Build assembles the document. texturePaths runs parallel to intervals; an
// empty or missing path selects the palette fallback. The returned document
// has already passed Validate.
func (b *Builder) Build(intervals []fcp.Interval, texturePaths []string) (*Document, error) {
	if err := b.Format.Validate(); err != nil {
		return nil, err
	}
	selectParams, err := b.Keying.SelectParams()
	if err != nil {
		return nil, err
	}

	placements, total := Repack(intervals, b.Format)
	if sum := fcp.TotalFrames(intervals, b.Format); sum != total {
		return nil, fmt.Errorf("repacked length %d does not match interval sum %d", total, sum)
	}

	title := b.Title
	if title == "" {
		title = DefaultTitle
	}
	version := b.Version
	if version == "" {
		version = DefaultVersion
	}

	doc := &Document{
		LCNumeric: "C",
		Version:   version,
		Title:     title,
		Root:      MainBinID,
		Profile:   b.profile(),
		MainBin: Playlist{
			ID:                   MainBinID,
			Title:                title,
			ProjectAudioChannels: "2",
			ProjectFolder:        "1",
			Properties:           []Property{{Name: "xml_retain", Value: "1"}},
		},
	}

	for _, p := range placements {
		doc.Producers = append(doc.Producers, b.hoodieProducer(p, selectParams))
	}
	for _, p := range placements {
		path := ""
		if p.Index < len(texturePaths) {
			path = texturePaths[p.Index]
		}
		doc.Producers = append(doc.Producers, textureProducer(p, path))
	}
	doc.Producers = append(doc.Producers, Producer{
		ID: BlackID,
		Properties: []Property{
			{Name: "resource", Value: "0"},
			{Name: "mlt_service", Value: "color"},
			{Name: "mlt_image_format", Value: "rgba"},
			{Name: "length", Value: strconv.Itoa(total)},
			{Name: "set.test_audio", Value: "0"},
		},
	})

	background := Playlist{
		ID:      BackgroundID,
		Entries: []Entry{{Producer: BlackID, In: 0, Out: total - 1}},
	}
	textures := Playlist{ID: TexturesID, Video: "1", Name: "V1 - Textures"}
	keyed := Playlist{ID: KeyedID, Video: "1", Name: "V2 - Hoodie (Keyed)"}
	for _, p := range placements {
		textures.Entries = append(textures.Entries, Entry{Producer: TextureID(p.Index), In: 0, Out: p.Length - 1})
		keyed.Entries = append(keyed.Entries, Entry{Producer: HoodieID(p.Index), In: p.In, Out: p.Out})
	}
	doc.Playlists = []Playlist{background, textures, keyed}

	doc.Tractor = Tractor{
		ID:      TractorID,
		Title:   tractorTitle,
		Shotcut: "1",
		In:      0,
		Out:     total - 1,
		Multitrack: Multitrack{Tracks: []Track{
			{Producer: BackgroundID},
			{Producer: TexturesID},
			{Producer: KeyedID},
		}},
	}
	for _, track := range []int{1, 2} {
		doc.Tractor.Transitions = append(doc.Tractor.Transitions, Transition{
			ID:           MixID(track),
			Service:      "mix",
			AlwaysActive: "1",
			Sum:          "1",
			ATrack:       0,
			BTrack:       track,
		})
	}
	// Shotcut expects a blend on every video track, visible or not.
	for _, track := range []int{1, 2} {
		doc.Tractor.Transitions = append(doc.Tractor.Transitions, Transition{
			ID:      BlendID(track),
			Service: "qtblend",
			ATrack:  0,
			BTrack:  track,
			Threads: "0",
		})
	}

	if _, err := Validate(doc); err != nil {
		return nil, fmt.Errorf("build composite: %w", err)
	}
	return doc, nil
}

func (b *Builder) profile() Profile {
	f := b.Format
	return Profile{
		Description:      fmt.Sprintf("%dx%d %.6f", f.Width, f.Height, f.FPS()),
		Width:            f.Width,
		Height:           f.Height,
		Progressive:      1,
		SampleAspectNum:  1,
		SampleAspectDen:  1,
		DisplayAspectNum: f.Width,
		DisplayAspectDen: f.Height,
		FrameRateNum:     f.FrameRateNum,
		FrameRateDen:     f.FrameRateDen,
		Colorspace:       709,
	}
}

func (b *Builder) hoodieProducer(p Placement, selectParams []keying.Param) Producer {
	chroma := Filter{ID: ChromaID(p.Index), Service: "frei0r.select0r"}
	for _, sp := range selectParams {
		chroma.Properties = append(chroma.Properties, Property{Name: sp.Name, Value: sp.Value})
	}
	chroma.Properties = append(chroma.Properties, Property{Name: "threads", Value: "0"})

	alpha := Filter{ID: AlphaID(p.Index), Service: "frei0r.alpha0ps"}
	for _, ap := range b.Keying.AlphaParams() {
		alpha.Properties = append(alpha.Properties, Property{Name: ap.Name, Value: ap.Value})
	}

	return Producer{
		ID:  HoodieID(p.Index),
		In:  intPtr(p.In),
		Out: intPtr(p.Out),
		Properties: []Property{
			{Name: "resource", Value: b.SourcePath},
			{Name: "mlt_service", Value: "avformat"},
			{Name: "mlt_image_format", Value: "rgba"},
		},
		Filters: []Filter{chroma, alpha},
	}
}

func textureProducer(p Placement, path string) Producer {
	prod := Producer{
		ID:         TextureID(p.Index),
		In:         intPtr(0),
		Out:        intPtr(p.Length - 1),
		Properties: []Property{{Name: "length", Value: strconv.Itoa(p.Length)}},
	}
	if path != "" {
		prod.Properties = append(prod.Properties,
			Property{Name: "resource", Value: path},
			Property{Name: "mlt_service", Value: "avformat"},
		)
		return prod
	}
	prod.Properties = append(prod.Properties,
		Property{Name: "resource", Value: FallbackColor(p.Index)},
		Property{Name: "mlt_service", Value: "color"},
		Property{Name: "mlt_image_format", Value: "rgba"},
	)
	return prod
}

func intPtr(v int) *int {
	return &v
}
