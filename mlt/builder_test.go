package mlt

import (
	"bytes"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyswap/fcp"
	"keyswap/keying"
	"keyswap/timecode"
)

func interval(start, duration string) fcp.Interval {
	return fcp.Interval{
		TimelineOffset: new(big.Rat),
		MediaStart:     timecode.MustParse(start),
		Duration:       timecode.MustParse(duration),
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(timecode.DefaultFormat(), "/media/hoodie.mov", keying.Default())
}

func transitionsByService(doc *Document, service string) []Transition {
	var out []Transition
	for _, tr := range doc.Tractor.Transitions {
		if tr.Service == service {
			out = append(out, tr)
		}
	}
	return out
}

func TestBuildSingleInterval(t *testing.T) {
	// 10.01s in and 2.002s long: exactly 240 and 48 frames at 24000/1001.
	doc, err := newTestBuilder().Build([]fcp.Interval{interval("240240/24000s", "48048/24000s")}, nil)
	require.NoError(t, err)

	hoodie, ok := doc.Producer("hoodie_00")
	require.True(t, ok)
	assert.Equal(t, 240, *hoodie.In)
	assert.Equal(t, 287, *hoodie.Out)
	res, _ := hoodie.Property("resource")
	assert.Equal(t, "/media/hoodie.mov", res)
	require.Len(t, hoodie.Filters, 2)
	assert.Equal(t, "chroma_00", hoodie.Filters[0].ID)
	assert.Equal(t, "frei0r.select0r", hoodie.Filters[0].Service)
	assert.Len(t, hoodie.Filters[0].Properties, 11)
	assert.Equal(t, Property{Name: "threads", Value: "0"}, hoodie.Filters[0].Properties[10])
	assert.Equal(t, "alpha_00", hoodie.Filters[1].ID)
	assert.Equal(t, []Property{{"2", "0.4"}, {"3", "0.3"}, {"4", "0.3"}}, hoodie.Filters[1].Properties)

	texture, ok := doc.Producer("texture_00")
	require.True(t, ok)
	assert.Equal(t, 0, *texture.In)
	assert.Equal(t, 47, *texture.Out)
	length, _ := texture.Property("length")
	assert.Equal(t, "48", length)

	black, ok := doc.Producer("black")
	require.True(t, ok)
	assert.Nil(t, black.In)
	length, _ = black.Property("length")
	assert.Equal(t, "48", length)

	assert.Equal(t, 48, doc.TotalFrames())
	assert.Equal(t, 47, doc.Tractor.Out)

	blends := transitionsByService(doc, "qtblend")
	mixes := transitionsByService(doc, "mix")
	require.Len(t, blends, 2)
	require.Len(t, mixes, 2)
	for i, tr := range append(blends, mixes...) {
		assert.Equal(t, 0, tr.ATrack)
		assert.Equal(t, i%2+1, tr.BTrack)
	}
	assert.Equal(t, "qtblend1", blends[0].ID)
	assert.Equal(t, "mix2", mixes[1].ID)
}

func TestBuildDecimalSecondsTruncate(t *testing.T) {
	doc, err := newTestBuilder().Build([]fcp.Interval{interval("10s", "2s")}, nil)
	require.NoError(t, err)

	hoodie, _ := doc.Producer("hoodie_00")
	assert.Equal(t, 239, *hoodie.In)
	assert.Equal(t, 239+47-1, *hoodie.Out)
	assert.Equal(t, 47, doc.TotalFrames())
}

func TestBuildZeroIntervals(t *testing.T) {
	doc, err := newTestBuilder().Build(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, doc.TotalFrames())
	assert.Equal(t, -1, doc.Tractor.Out)
	require.Len(t, doc.Producers, 1)
	assert.Equal(t, BlackID, doc.Producers[0].ID)

	bg, _ := doc.Playlist(BackgroundID)
	assert.Equal(t, []Entry{{Producer: BlackID, In: 0, Out: -1}}, bg.Entries)
	for _, id := range []string{TexturesID, KeyedID} {
		p, ok := doc.Playlist(id)
		require.True(t, ok)
		assert.Empty(t, p.Entries)
	}
	assert.Len(t, doc.Tractor.Transitions, 4)
}

func TestBuildTexturePaths(t *testing.T) {
	intervals := []fcp.Interval{
		interval("0s", "1s"),
		interval("5s", "1s"),
		interval("9s", "1s"),
	}
	doc, err := newTestBuilder().Build(intervals, []string{"/tmp/texture_00.mp4", ""})
	require.NoError(t, err)

	first, _ := doc.Producer("texture_00")
	res, _ := first.Property("resource")
	svc, _ := first.Property("mlt_service")
	assert.Equal(t, "/tmp/texture_00.mp4", res)
	assert.Equal(t, "avformat", svc)
	_, hasFormat := first.Property("mlt_image_format")
	assert.False(t, hasFormat)

	// An empty path and a path past the end of the list both fall back.
	for i, want := range map[int]string{1: "#00ff00", 2: "#0000ff"} {
		p, _ := doc.Producer(TextureID(i))
		res, _ := p.Property("resource")
		svc, _ := p.Property("mlt_service")
		assert.Equal(t, want, res)
		assert.Equal(t, "color", svc)
	}
}

func TestFallbackColorWraps(t *testing.T) {
	assert.Equal(t, "#ff0000", FallbackColor(0))
	assert.Equal(t, "#0088ff", FallbackColor(9))
	assert.Equal(t, "#00ff00", FallbackColor(11))
}

func TestRepackIsGapFree(t *testing.T) {
	f := timecode.DefaultFormat()
	// Overlapping and out of order in the source; placement ignores both.
	intervals := []fcp.Interval{
		interval("100s", "1.0s"),
		interval("100.25s", "0.5s"),
		interval("3s", "7/3s"),
		interval("3s", "0s"),
		interval("50s", "1001/24000s"),
	}
	placements, total := Repack(intervals, f)
	require.Len(t, placements, len(intervals))

	cursor, sum := 0, 0
	for i, p := range placements {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, cursor, p.Start, "interval %d starts where the previous one ended", i)
		assert.Equal(t, intervals[i].DurationFrames(f), p.Length)
		assert.Equal(t, p.Length, p.Out-p.In+1)
		cursor += p.Length
		sum += intervals[i].DurationFrames(f)
	}
	assert.Equal(t, sum, total)
	assert.Equal(t, fcp.TotalFrames(intervals, f), total)
}

func TestRepackSumsTruncatedLengths(t *testing.T) {
	f := timecode.DefaultFormat()
	intervals := []fcp.Interval{interval("0s", "1.0s"), interval("1s", "0.5s")}

	_, total := Repack(intervals, f)
	assert.Equal(t, 34, total)
	assert.NotEqual(t, timecode.FrameCount(big.NewRat(3, 2), f), total)

	doc, err := newTestBuilder().Build(intervals, nil)
	require.NoError(t, err)
	assert.Equal(t, 34, doc.TotalFrames())

	textures, _ := doc.Playlist(TexturesID)
	assert.Equal(t, []Entry{
		{Producer: "texture_00", In: 0, Out: 22},
		{Producer: "texture_01", In: 0, Out: 10},
	}, textures.Entries)
}

func TestKeyedEntriesUseSourcePositions(t *testing.T) {
	doc, err := newTestBuilder().Build([]fcp.Interval{
		interval("240240/24000s", "24024/24000s"),
		interval("480480/24000s", "24024/24000s"),
	}, nil)
	require.NoError(t, err)

	keyed, _ := doc.Playlist(KeyedID)
	assert.Equal(t, []Entry{
		{Producer: "hoodie_00", In: 240, Out: 263},
		{Producer: "hoodie_01", In: 480, Out: 503},
	}, keyed.Entries)
}

func TestReferentialClosure(t *testing.T) {
	intervals := make([]fcp.Interval, 12)
	for i := range intervals {
		intervals[i] = interval("1s", "1.5s")
	}
	doc, err := newTestBuilder().Build(intervals, nil)
	require.NoError(t, err)

	reg, err := Validate(doc)
	require.NoError(t, err)
	for _, p := range append([]Playlist{doc.MainBin}, doc.Playlists...) {
		for _, e := range p.Entries {
			_, ok := reg.Lookup(e.Producer)
			assert.True(t, ok, e.Producer)
		}
	}
	for _, tr := range doc.Tractor.Multitrack.Tracks {
		kind, ok := reg.Lookup(tr.Producer)
		assert.True(t, ok, tr.Producer)
		assert.Equal(t, PlaylistKind, kind)
	}
	_, ok := reg.Lookup("hoodie_11")
	assert.True(t, ok)
}

func TestValidateDetectsDanglingReferences(t *testing.T) {
	build := func() *Document {
		doc, err := newTestBuilder().Build([]fcp.Interval{interval("1s", "1s")}, nil)
		require.NoError(t, err)
		return doc
	}

	doc := build()
	doc.Playlists[1].Entries[0].Producer = "texture_99"
	_, err := Validate(doc)
	assert.True(t, errors.Is(err, ErrDanglingReference), "%v", err)

	doc = build()
	doc.Tractor.Multitrack.Tracks[2].Producer = "playlist7"
	_, err = Validate(doc)
	assert.ErrorIs(t, err, ErrDanglingReference)

	doc = build()
	doc.Tractor.Transitions[0].BTrack = 3
	_, err = Validate(doc)
	assert.ErrorIs(t, err, ErrDanglingReference)

	doc = build()
	doc.Root = "nope"
	_, err = Validate(doc)
	assert.ErrorIs(t, err, ErrDanglingReference)

	doc = build()
	doc.Producers[1].ID = "hoodie_00"
	_, err = Validate(doc)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestBuildRejectsBadKeyColor(t *testing.T) {
	b := newTestBuilder()
	b.Keying.KeyColor = "blue"
	_, err := b.Build([]fcp.Interval{interval("1s", "1s")}, nil)
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	doc, err := newTestBuilder().Build([]fcp.Interval{interval("240240/24000s", "48048/24000s")}, []string{"/tmp/t.mp4"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	for _, want := range []string{
		`<mlt LC_NUMERIC="C" version="7.22.0" title="Hoodie Replacement" producer="main_bin">`,
		`<profile description="1920x1080 23.976024" width="1920" height="1080" progressive="1" sample_aspect_num="1" sample_aspect_den="1" display_aspect_num="1920" display_aspect_den="1080" frame_rate_num="24000" frame_rate_den="1001" colorspace="709"></profile>`,
		`<playlist id="main_bin" title="Hoodie Replacement" shotcut:projectAudioChannels="2" shotcut:projectFolder="1">`,
		`<property name="xml_retain">1</property>`,
		`<producer id="hoodie_00" in="240" out="287">`,
		`<filter id="chroma_00" mlt_service="frei0r.select0r">`,
		`<property name="0">0.313725 0.317647 0.568627</property>`,
		`<producer id="texture_00" in="0" out="47">`,
		`<producer id="black">`,
		`<playlist id="playlist0" shotcut:video="1" shotcut:name="V1 - Textures">`,
		`<entry producer="hoodie_00" in="240" out="287"></entry>`,
		`<tractor id="tractor0" title="Shotcut version 25.01.25" shotcut="1" in="0" out="47">`,
		`<track producer="playlist1"></track>`,
		`<transition id="mix1" mlt_service="mix" always_active="1" sum="1" a_track="0" b_track="1"></transition>`,
		`<transition id="qtblend2" mlt_service="qtblend" a_track="0" b_track="2" threads="0"></transition>`,
	} {
		assert.Contains(t, out, want)
	}

	// Declaration order: profile, main bin, producers, playlists, tractor.
	order := []string{`<profile`, `id="main_bin"`, `id="hoodie_00"`, `id="texture_00"`, `id="black"`, `id="background"`, `id="playlist0"`, `id="playlist1"`, `<tractor`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		require.Greater(t, idx, last, marker)
		last = idx
	}
}

func TestWriteFile(t *testing.T) {
	doc, err := newTestBuilder().Build(nil, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.mlt")
	require.NoError(t, WriteFile(path, doc))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<tractor id="tractor0" title="Shotcut version 25.01.25" shotcut="1" in="0" out="-1">`)

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "out.mlt"), doc))
}
