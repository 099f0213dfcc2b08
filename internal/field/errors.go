package field

import (
	"errors"
	"fmt"
)

// Domain errors for field operations.
var (
	// ErrShapeMismatch indicates two fields that must be co-registered differ in shape.
	ErrShapeMismatch = errors.New("field: shape mismatch")

	// ErrOddDimension indicates a combined dimension that cannot be halved evenly.
	ErrOddDimension = errors.New("field: combined dimension is odd")

	// ErrDegenerateGrid indicates a grid axis with zero samples.
	ErrDegenerateGrid = errors.New("field: degenerate grid (axis has no samples)")

	// ErrInvalidParameter indicates a parameter value outside its valid range.
	ErrInvalidParameter = errors.New("field: invalid parameter")

	// ErrOutOfBounds indicates an index outside the frame it addresses.
	ErrOutOfBounds = errors.New("field: index out of bounds")
)

// ShapeError wraps ErrShapeMismatch with the shapes involved.
type ShapeError struct {
	Op   string
	Want Shape
	Got  Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", e.Op, ErrShapeMismatch, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
