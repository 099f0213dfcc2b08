package augment

import (
	"fmt"

	"github.com/san-kum/flowsynth/internal/field"
)

// Coord is a (row, col) grid index. Row indexes x and Col indexes y.
type Coord struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Component names the original field a sensor observes.
type Component int

const (
	ComponentU Component = iota
	ComponentV
)

func (c Component) String() string {
	if c == ComponentV {
		return "v"
	}
	return "u"
}

// TaggedCoord is a sensor position in the original frame together with the
// component it was placed on.
type TaggedCoord struct {
	Component Component `json:"component"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
}

func (c TaggedCoord) Coord() Coord { return Coord{Row: c.Row, Col: c.Col} }

func (c TaggedCoord) String() string {
	return fmt.Sprintf("%s(%d,%d)", c.Component, c.Row, c.Col)
}

// MapSensorTagged maps coordinates from a combined frame of spatial shape
// combined = [nx, ny] to the original frame, recording which half each came
// from. Any coordinate outside the combined frame fails the whole call.
func MapSensorTagged(coords []Coord, combined [2]int, o Orientation) ([]TaggedCoord, error) {
	nxC, nyC := combined[0], combined[1]
	var half int
	switch o {
	case Horizontal:
		half = nyC / 2
	case Vertical:
		half = nxC / 2
	default:
		return nil, fmt.Errorf("map sensors: invalid orientation %d", int(o))
	}

	out := make([]TaggedCoord, len(coords))
	for k, c := range coords {
		if c.Row < 0 || c.Row >= nxC || c.Col < 0 || c.Col >= nyC {
			return nil, fmt.Errorf("map sensors: coordinate %d %s outside %dx%d: %w",
				k, c, nxC, nyC, field.ErrOutOfBounds)
		}
		tc := TaggedCoord{Component: ComponentU, Row: c.Row, Col: c.Col}
		switch {
		case o == Horizontal && c.Col >= half:
			tc.Component, tc.Col = ComponentV, c.Col-half
		case o == Vertical && c.Row >= half:
			tc.Component, tc.Row = ComponentV, c.Row-half
		}
		out[k] = tc
	}
	return out, nil
}

// MapSensorToOriginal returns coords translated into the original frame, in
// the same order. Coordinates in the first half are unchanged. The input is
// not modified. A coordinate outside the combined frame fails with
// field.ErrOutOfBounds.
func MapSensorToOriginal(coords []Coord, combined [2]int, o Orientation) ([]Coord, error) {
	tagged, err := MapSensorTagged(coords, combined, o)
	if err != nil {
		return nil, err
	}
	out := make([]Coord, len(tagged))
	for i, tc := range tagged {
		out[i] = tc.Coord()
	}
	return out, nil
}

// SplitSensors groups mapped coordinates by component, keeping relative order.
func SplitSensors(coords []Coord, combined [2]int, o Orientation) (u, v []Coord, err error) {
	tagged, err := MapSensorTagged(coords, combined, o)
	if err != nil {
		return nil, nil, err
	}
	for _, tc := range tagged {
		if tc.Component == ComponentV {
			v = append(v, tc.Coord())
		} else {
			u = append(u, tc.Coord())
		}
	}
	return u, v, nil
}

// ParseCoord parses "row,col".
func ParseCoord(s string) (Coord, error) {
	var c Coord
	if _, err := fmt.Sscanf(s, "%d,%d", &c.Row, &c.Col); err != nil {
		return Coord{}, fmt.Errorf("augment: parse coordinate %q: %w", s, err)
	}
	return c, nil
}
