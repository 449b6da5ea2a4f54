// Package keying holds the chroma key (frei0r.select0r) and alpha adjust
// (frei0r.alpha0ps) filter parameters written into every keyed producer.
package keying

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultKeyColor    = "#505191"
	DefaultDeltaH      = 0.5
	DefaultDeltaC      = 0.5
	DefaultDeltaI      = 0.6
	DefaultSlope       = 0.1
	DefaultAlphaMode   = 0.4
	DefaultAlphaAmount = 0.3
)

// Params is the full set of keying values. Float values are passed to the
// engine verbatim; their valid ranges belong to frei0r, not to us.
type Params struct {
	KeyColor    string     `toml:"key_color"`
	Invert      bool       `toml:"invert"`
	DeltaH      float64    `toml:"delta_h"`
	DeltaC      float64    `toml:"delta_c"`
	DeltaI      float64    `toml:"delta_i"`
	Slope       float64    `toml:"slope"`
	Colorspace  Colorspace `toml:"colorspace"`
	Shape       Shape      `toml:"shape"`
	Edge        Edge       `toml:"edge"`
	Operation   Operation  `toml:"operation"`
	AlphaMode   float64    `toml:"alpha_mode"`
	AlphaAmount float64    `toml:"alpha_amount"`
}

// Default returns the blue-screen preset tuned for the hoodie footage.
func Default() Params {
	return Params{
		KeyColor:    DefaultKeyColor,
		DeltaH:      DefaultDeltaH,
		DeltaC:      DefaultDeltaC,
		DeltaI:      DefaultDeltaI,
		Slope:       DefaultSlope,
		Colorspace:  ColorspaceHCI,
		Shape:       ShapeEllipsoid,
		Edge:        EdgeThin,
		Operation:   OperationMin,
		AlphaMode:   DefaultAlphaMode,
		AlphaAmount: DefaultAlphaAmount,
	}
}

// Validate only checks the key color; numeric values are never range checked.
func (p Params) Validate() error {
	if _, err := Frei0rColor(p.KeyColor); err != nil {
		return err
	}
	return nil
}

// Param is one positional filter property.
type Param struct {
	Name  string
	Value string
}

// SelectParams returns the frei0r.select0r properties 0 through 9 in order.
func (p Params) SelectParams() ([]Param, error) {
	color, err := Frei0rColor(p.KeyColor)
	if err != nil {
		return nil, err
	}
	invert := "0"
	if p.Invert {
		invert = "1"
	}
	return []Param{
		{"0", color},
		{"1", invert},
		{"2", FormatFloat(p.DeltaH)},
		{"3", FormatFloat(p.DeltaC)},
		{"4", FormatFloat(p.DeltaI)},
		{"5", FormatFloat(p.Slope)},
		{"6", FormatFloat(float64(p.Colorspace))},
		{"7", FormatFloat(float64(p.Shape))},
		{"8", FormatFloat(float64(p.Edge))},
		{"9", FormatFloat(float64(p.Operation))},
	}, nil
}

// AlphaParams returns the frei0r.alpha0ps properties. Threshold (3) and
// amount (4) share AlphaAmount.
func (p Params) AlphaParams() []Param {
	amount := FormatFloat(p.AlphaAmount)
	return []Param{
		{"2", FormatFloat(p.AlphaMode)},
		{"3", amount},
		{"4", amount},
	}
}

// Frei0rColor converts "#rrggbb" into the normalized "r g b" triple frei0r
// expects for color parameters.
func Frei0rColor(hex string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return "", fmt.Errorf("invalid key color %q: want #rrggbb", hex)
	}
	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
		if err != nil {
			return "", fmt.Errorf("invalid key color %q: %w", hex, err)
		}
		rgb[i] = float64(v) / 255.0
	}
	return fmt.Sprintf("%.6f %.6f %.6f", rgb[0], rgb[1], rgb[2]), nil
}

// FormatFloat writes the shortest decimal that round-trips, always keeping a
// fractional part ("1.0", "0.35").
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
