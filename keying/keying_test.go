package keying

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrei0rColor(t *testing.T) {
	got, err := Frei0rColor("#505191")
	require.NoError(t, err)
	assert.Equal(t, "0.313725 0.317647 0.568627", got)

	got, err = Frei0rColor("ffffff")
	require.NoError(t, err)
	assert.Equal(t, "1.000000 1.000000 1.000000", got)

	for _, bad := range []string{"", "#fff", "#gg0000", "#12345678"} {
		_, err := Frei0rColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultSelectParams(t *testing.T) {
	params, err := Default().SelectParams()
	require.NoError(t, err)

	want := []Param{
		{"0", "0.313725 0.317647 0.568627"},
		{"1", "0"},
		{"2", "0.5"},
		{"3", "0.5"},
		{"4", "0.6"},
		{"5", "0.1"},
		{"6", "1.0"},
		{"7", "0.5"},
		{"8", "0.7"},
		{"9", "0.5"},
	}
	assert.Equal(t, want, params)
}

func TestAlphaParamsShareAmount(t *testing.T) {
	p := Default()
	p.AlphaAmount = 0.45
	assert.Equal(t, []Param{{"2", "0.4"}, {"3", "0.45"}, {"4", "0.45"}}, p.AlphaParams())
}

func TestOutOfRangeValuesPassThrough(t *testing.T) {
	p := Default()
	p.DeltaH = 1.75
	p.Slope = -0.2
	p.Invert = true
	require.NoError(t, p.Validate())

	params, err := p.SelectParams()
	require.NoError(t, err)
	assert.Equal(t, "1", params[1].Value)
	assert.Equal(t, "1.75", params[2].Value)
	assert.Equal(t, "-0.2", params[5].Value)
}

func TestModeText(t *testing.T) {
	var e Edge
	require.NoError(t, e.UnmarshalText([]byte("Fat")))
	assert.Equal(t, EdgeFat, e)
	require.NoError(t, e.UnmarshalText([]byte("0.6")))
	assert.Equal(t, EdgeNormal, e)
	assert.Equal(t, "normal", e.String())
	require.NoError(t, e.Set("0.42"))
	assert.Equal(t, "0.42", e.String())
	assert.Error(t, e.UnmarshalText([]byte("blurry")))

	var op Operation
	require.NoError(t, op.UnmarshalText([]byte("sub")))
	assert.Equal(t, OperationSub, op)

	var s Shape
	require.NoError(t, s.UnmarshalText([]byte("diamond")))
	assert.Equal(t, ShapeDiamond, s)

	var c Colorspace
	require.NoError(t, c.UnmarshalText([]byte("RGB")))
	assert.Equal(t, ColorspaceRGB, c)
	assert.Equal(t, "hci", ColorspaceHCI.String())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.0", FormatFloat(0))
	assert.Equal(t, "1.0", FormatFloat(1))
	assert.Equal(t, "0.35", FormatFloat(0.35))
	assert.Equal(t, "12.0", FormatFloat(12))
}
