package geospatial

import (
	"errors"
	"fmt"
)

// Structural decode/encode failures. Absent geometries are never errors.
var (
	ErrUnsupportedType   = errors.New("unsupported geometry type")
	ErrInvalidPolygon    = errors.New("polygon must contain at least 4 coordinates (closed ring)")
	ErrMissingType       = errors.New("geometry type is required")
	ErrInvalidDocument   = errors.New("geometry document is malformed")
	ErrInvalidCoordinate = errors.New("coordinate must have at least 2 numeric values [longitude, latitude]")
	ErrKindMismatch      = errors.New("geometry type does not match field")
	ErrNoPolygon         = errors.New("record does not contain a polygon")
)

// UnsupportedTypeError carries the type tag the decoder refused.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported geometry type: %s", e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// IsStructural reports whether err is a client-input fault raised by this package.
func IsStructural(err error) bool {
	for _, target := range []error{
		ErrUnsupportedType,
		ErrInvalidPolygon,
		ErrMissingType,
		ErrInvalidDocument,
		ErrInvalidCoordinate,
		ErrKindMismatch,
		ErrNoPolygon,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
