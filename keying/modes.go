package keying

import (
	"fmt"
	"strconv"
	"strings"
)

// Colorspace selects the select0r color model.
type Colorspace float64

const (
	ColorspaceRGB Colorspace = 0
	ColorspaceHCI Colorspace = 1
)

// Shape is the select0r subspace shape.
type Shape float64

const (
	ShapeBox       Shape = 0
	ShapeEllipsoid Shape = 0.5
	ShapeDiamond   Shape = 1
)

// Edge is the select0r edge mode.
type Edge float64

const (
	EdgeHard   Edge = 0
	EdgeFat    Edge = 0.35
	EdgeNormal Edge = 0.6
	EdgeThin   Edge = 0.7
	EdgeSlope  Edge = 0.9
)

// Operation is how the selection is combined with the existing alpha.
type Operation float64

const (
	OperationOverwrite Operation = 0
	OperationMax       Operation = 0.3
	OperationMin       Operation = 0.5
	OperationAdd       Operation = 0.7
	OperationSub       Operation = 1
)

var (
	colorspaceNames = []named{{"rgb", 0}, {"hci", 1}}
	shapeNames      = []named{{"box", 0}, {"ellipsoid", 0.5}, {"diamond", 1}}
	edgeNames       = []named{{"hard", 0}, {"fat", 0.35}, {"normal", 0.6}, {"thin", 0.7}, {"slope", 0.9}}
	operationNames  = []named{{"overwrite", 0}, {"max", 0.3}, {"min", 0.5}, {"add", 0.7}, {"sub", 1}}
)

type named struct {
	name  string
	value float64
}

// lookup accepts either a mode name or a raw number. Raw numbers outside the
// named set pass through unchanged.
func lookup(kind string, table []named, text string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, n := range table {
		if n.name == s {
			return n.value, nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown %s %q", kind, text)
	}
	return v, nil
}

func name(table []named, v float64) string {
	for _, n := range table {
		if n.value == v {
			return n.name
		}
	}
	return FormatFloat(v)
}

func (c Colorspace) String() string { return name(colorspaceNames, float64(c)) }
func (s Shape) String() string      { return name(shapeNames, float64(s)) }
func (e Edge) String() string       { return name(edgeNames, float64(e)) }
func (o Operation) String() string  { return name(operationNames, float64(o)) }

func (c *Colorspace) UnmarshalText(b []byte) error {
	v, err := lookup("colorspace", colorspaceNames, string(b))
	*c = Colorspace(v)
	return err
}

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := lookup("shape", shapeNames, string(b))
	*s = Shape(v)
	return err
}

func (e *Edge) UnmarshalText(b []byte) error {
	v, err := lookup("edge", edgeNames, string(b))
	*e = Edge(v)
	return err
}

func (o *Operation) UnmarshalText(b []byte) error {
	v, err := lookup("operation", operationNames, string(b))
	*o = Operation(v)
	return err
}

func (c Colorspace) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (s Shape) MarshalText() ([]byte, error)      { return []byte(s.String()), nil }
func (e Edge) MarshalText() ([]byte, error)       { return []byte(e.String()), nil }
func (o Operation) MarshalText() ([]byte, error)  { return []byte(o.String()), nil }

// Set and Type let the mode types back pflag values.
func (e *Edge) Set(s string) error { return e.UnmarshalText([]byte(s)) }
func (e *Edge) Type() string       { return "edge" }
