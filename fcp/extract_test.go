package fcp

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyswap/timecode"
)

const projectXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE fcpxml>
<fcpxml version="1.11">
    <resources>
        <format id="r1" name="FFVideoFormat1080p2398" frameDuration="1001/24000s" width="1920" height="1080" colorSpace="1-1-1 (Rec. 709)"/>
        <format id="r9" frameDuration="1/25s" width="1280" height="720"/>
        <asset id="r8" name="hoodie" start="0s" duration="3600s" hasVideo="1" format="r1">
            <media-rep kind="original-media" src="file:///Volumes/Media/Hoodie%20Shoot/A001.mov"/>
        </asset>
        <asset id="r2" name="broll" start="0s" duration="60s" hasVideo="1" format="r1"/>
    </resources>
    <library>
        <event name="Shoot">
            <project name="Edit">
                <sequence format="r1" duration="1000s" tcStart="0s">
                    <spine>
                        <clip name="Unkillible Hoodie A" offset="3600/2400s" start="480480/24000s" duration="24024/24000s">
                            <video ref="r8" offset="0s" duration="24024/24000s"/>
                        </clip>
                        <clip name="Unkillible Hoodie A" offset="10s" start="240240/24000s" duration="48048/24000s">
                            <video ref="r8" offset="0s" duration="48048/24000s"/>
                        </clip>
                        <clip name="Unkillible Hoodie A" offset="20s" start="5s" duration="2s">
                            <video ref="r2" offset="0s" duration="2s"/>
                        </clip>
                        <clip name="Something Else" offset="30s" start="1s" duration="2s">
                            <video ref="r8" offset="0s" duration="2s"/>
                        </clip>
                        <ref-clip name="Hoodie Compound" offset="40s" duration="5s">
                            <spine>
                                <clip name="Unkillible Hoodie A" offset="0s" start="240240/24000s" duration="1s">
                                    <video ref="r8"/>
                                </clip>
                            </spine>
                        </ref-clip>
                        <clip name="Unkillible Hoodie A" offset="50s">
                            <spine>
                                <video ref="r8"/>
                            </spine>
                        </clip>
                    </spine>
                </sequence>
            </project>
        </event>
    </library>
</fcpxml>`

func parseFixture(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	return doc
}

func TestFormat(t *testing.T) {
	doc := parseFixture(t, projectXML)

	f, err := doc.Format("r1")
	require.NoError(t, err)
	assert.Equal(t, timecode.DefaultFormat(), f)

	f, err = doc.Format("r9")
	require.NoError(t, err)
	assert.Equal(t, timecode.Format{Width: 1280, Height: 720, FrameRateNum: 25, FrameRateDen: 1}, f)

	f, err = doc.Format("missing")
	require.NoError(t, err)
	assert.Equal(t, timecode.DefaultFormat(), f)
}

func TestFormatMissingAttributesUseDefaults(t *testing.T) {
	doc := parseFixture(t, `<fcpxml><resources><format id="r1" height="720"/></resources></fcpxml>`)
	f, err := doc.Format("")
	require.NoError(t, err)
	assert.Equal(t, 1920, f.Width)
	assert.Equal(t, 720, f.Height)
	assert.Equal(t, 24000, f.FrameRateNum)
	assert.Equal(t, 1001, f.FrameRateDen)
}

func TestFormatMalformed(t *testing.T) {
	doc := parseFixture(t, `<fcpxml><resources><format id="r1" width="wide"/></resources></fcpxml>`)
	_, err := doc.Format("r1")
	assert.Error(t, err)
}

func TestAssetSourcePath(t *testing.T) {
	doc := parseFixture(t, projectXML)

	path, ok := doc.AssetSourcePath("r8")
	require.True(t, ok)
	assert.Equal(t, "/Volumes/Media/Hoodie Shoot/A001.mov", path)

	_, ok = doc.AssetSourcePath("r2")
	assert.False(t, ok, "asset without media-rep")

	_, ok = doc.AssetSourcePath("r404")
	assert.False(t, ok)
}

func TestExtract(t *testing.T) {
	doc := parseFixture(t, projectXML)

	intervals, err := doc.Extract(ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, intervals, 3)

	f := timecode.DefaultFormat()
	for i, iv := range intervals {
		assert.Equal(t, i, iv.Index)
	}

	// Equal media starts keep document order: the top-level clip precedes the
	// one nested in the compound clip.
	assert.Equal(t, 240, intervals[0].MediaStartFrames(f))
	assert.Equal(t, 48, intervals[0].DurationFrames(f))
	assert.Zero(t, intervals[0].TimelineOffset.Cmp(big.NewRat(10, 1)))
	assert.Equal(t, "Edit", intervals[0].ParentName)

	assert.Equal(t, 240, intervals[1].MediaStartFrames(f))
	assert.Equal(t, "Hoodie Compound", intervals[1].ParentName)

	assert.Equal(t, 480, intervals[2].MediaStartFrames(f))
	assert.Equal(t, 24, intervals[2].DurationFrames(f))
	assert.Zero(t, intervals[2].TimelineOffset.Cmp(big.NewRat(3, 2)))

	assert.Equal(t, 48+23+24, TotalFrames(intervals, f))
}

func TestExtractOtherAsset(t *testing.T) {
	doc := parseFixture(t, projectXML)

	intervals, err := doc.Extract(ExtractOptions{AssetID: "r2"})
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Zero(t, intervals[0].MediaStart.Cmp(big.NewRat(5, 1)))
}

func TestExtractNormalizesNames(t *testing.T) {
	decomposed := "Cafe\u0301"
	doc := parseFixture(t, `<fcpxml><clip name="`+decomposed+`" start="1s" duration="1s"><video ref="r8"/></clip></fcpxml>`)
	intervals, err := doc.Extract(ExtractOptions{ClipName: "Caf\u00e9"})
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, decomposed, intervals[0].ParentName)
}

func TestExtractMissingTimesDefaultToZero(t *testing.T) {
	doc := parseFixture(t, `<fcpxml><clip name="Unkillible Hoodie A"><video ref="r8"/></clip></fcpxml>`)
	intervals, err := doc.Extract(ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Zero(t, intervals[0].MediaStart.Sign())
	assert.Zero(t, intervals[0].Duration.Sign())
	assert.Zero(t, intervals[0].DurationFrames(timecode.DefaultFormat()))
}

func TestExtractNegativeDurationClampsFrames(t *testing.T) {
	doc := parseFixture(t, `<fcpxml><clip name="Unkillible Hoodie A" duration="-2s"><video ref="r8"/></clip></fcpxml>`)
	intervals, err := doc.Extract(ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, 0, intervals[0].DurationFrames(timecode.DefaultFormat()))
}

func TestExtractMalformedTime(t *testing.T) {
	doc := parseFixture(t, `<fcpxml><clip name="Unkillible Hoodie A" start="ten/24000s"><video ref="r8"/></clip></fcpxml>`)
	_, err := doc.Extract(ExtractOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")
}

func TestParseFCPXMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Info.fcpxml")
	require.NoError(t, os.WriteFile(path, []byte(projectXML), 0o644))

	doc, err := ParseFCPXML(path)
	require.NoError(t, err)
	assert.Equal(t, "fcpxml", doc.Root.Name())

	_, err = ParseFCPXML(filepath.Join(t.TempDir(), "missing.fcpxml"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("<fcpxml><unclosed></fcpxml>"))
	assert.Error(t, err)
}
