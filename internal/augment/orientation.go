package augment

import (
	"fmt"
	"strings"
)

// Orientation selects the spatial axis two fields are concatenated along.
type Orientation int

const (
	// Horizontal concatenates along y, doubling Ny.
	Horizontal Orientation = iota
	// Vertical concatenates along x, doubling Nx.
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// ParseOrientation accepts "horizontal"/"h" and "vertical"/"v", case-insensitive.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h", "":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return 0, fmt.Errorf("augment: unknown orientation %q", s)
}

func (o Orientation) MarshalText() ([]byte, error) {
	if o != Horizontal && o != Vertical {
		return nil, fmt.Errorf("augment: invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
