package geospatial

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
)

// taggedDocument is the {type, coordinates} shape accepted on the tagged path.
type taggedDocument struct {
	Type        *string         `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// DecodeDocument decodes a tagged {type, coordinates} document.
//
// Only Point, LineString and Polygon tags are accepted. A null document, or
// coordinates that are null or not an array, yield (nil, nil). Structural
// problems (unknown tag, missing tag, short polygon ring, malformed
// positions) return an error and no geometry.
func DecodeDocument(raw []byte) (orb.Geometry, error) {
	if isNull(raw) {
		return nil, nil
	}

	var doc taggedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Type == nil {
		return nil, ErrMissingType
	}

	var coords any
	if !isNull(doc.Coordinates) {
		if err := json.Unmarshal(doc.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("%w: coordinates: %v", ErrInvalidDocument, err)
		}
	}

	switch Kind(*doc.Type) {
	case KindPoint:
		return taggedPoint(coords)
	case KindPolygon:
		return taggedPolygon(coords)
	case KindLineString:
		return taggedLineString(coords)
	default:
		return nil, &UnsupportedTypeError{Type: *doc.Type}
	}
}

// DecodeDocumentAs decodes raw and requires the result to be a T. It returns
// (nil, nil) when the document decodes to nothing.
func DecodeDocumentAs[T orb.Geometry](raw []byte) (*T, error) {
	g, err := DecodeDocument(raw)
	if err != nil || g == nil {
		return nil, err
	}
	v, ok := g.(T)
	if !ok {
		var want T
		return nil, fmt.Errorf("%w: got %s, want %s", ErrKindMismatch, g.GeoJSONType(), want.GeoJSONType())
	}
	return &v, nil
}

func taggedPoint(coords any) (orb.Geometry, error) {
	arr, ok := coords.([]any)
	if !ok || len(arr) < 2 {
		return nil, nil
	}
	p, err := anyPosition(arr)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func taggedPolygon(coords any) (orb.Geometry, error) {
	rings, ok := coords.([]any)
	if !ok || len(rings) == 0 {
		return nil, nil
	}
	shell, ok := rings[0].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: exterior ring is not an array", ErrInvalidPolygon)
	}
	// Ring length is reported before position errors. NewLinearRing
	// repeats the check for callers that build rings directly.
	if len(shell) < MinRingSize {
		return nil, fmt.Errorf("%w: ring has %d positions", ErrInvalidPolygon, len(shell))
	}
	pts, err := anyPositions(shell)
	if err != nil {
		return nil, err
	}
	r, err := NewLinearRing(pts)
	if err != nil {
		return nil, err
	}
	return NewPolygon(r), nil
}

func taggedLineString(coords any) (orb.Geometry, error) {
	arr, ok := coords.([]any)
	if !ok {
		return nil, nil
	}
	pts, err := anyPositions(arr)
	if err != nil {
		return nil, err
	}
	return NewLineString(pts), nil
}

func anyPosition(v any) (orb.Point, error) {
	arr, ok := v.([]any)
	if !ok || len(arr) < 2 {
		return orb.Point{}, ErrInvalidCoordinate
	}
	x, okX := arr[0].(float64)
	y, okY := arr[1].(float64)
	if !okX || !okY {
		return orb.Point{}, ErrInvalidCoordinate
	}
	return NewPoint(x, y), nil
}

func anyPositions(arr []any) ([]orb.Point, error) {
	pts := make([]orb.Point, 0, len(arr))
	for i, v := range arr {
		p, err := anyPosition(v)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// Flat-array decoding. Each field of a flat request carries one kind without
// a tag; a nil or empty field leaves the slot absent.

// DecodePoint returns nil unless coords has at least two values. Extra
// values are ignored.
func DecodePoint(coords []float64) *orb.Point {
	if len(coords) < 2 {
		return nil
	}
	p := NewPoint(coords[0], coords[1])
	return &p
}

func DecodeMultiPoint(coords [][]float64) (*orb.MultiPoint, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	pts, err := positions(coords)
	if err != nil {
		return nil, fmt.Errorf("multipoint: %w", err)
	}
	mp := NewMultiPoint(pts)
	return &mp, nil
}

func DecodeLineString(coords [][]float64) (*orb.LineString, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	pts, err := positions(coords)
	if err != nil {
		return nil, fmt.Errorf("linestring: %w", err)
	}
	ls := NewLineString(pts)
	return &ls, nil
}

func DecodeMultiLineString(coords [][][]float64) (*orb.MultiLineString, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	lines := make([]orb.LineString, 0, len(coords))
	for i, c := range coords {
		pts, err := positions(c)
		if err != nil {
			return nil, fmt.Errorf("multilinestring line %d: %w", i, err)
		}
		lines = append(lines, NewLineString(pts))
	}
	mls := NewMultiLineString(lines)
	return &mls, nil
}

// DecodePolygon reads the exterior ring from coords[0]; later rings are
// ignored. A short exterior ring is a hard failure.
func DecodePolygon(coords [][][]float64) (*orb.Polygon, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	p, err := polygon(coords)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func DecodeMultiPolygon(coords [][][][]float64) (*orb.MultiPolygon, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	polys := make([]orb.Polygon, 0, len(coords))
	for i, c := range coords {
		p, err := polygon(c)
		if err != nil {
			return nil, fmt.Errorf("multipolygon member %d: %w", i, err)
		}
		polys = append(polys, p)
	}
	mp := NewMultiPolygon(polys)
	return &mp, nil
}

func polygon(rings [][][]float64) (orb.Polygon, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("%w: no exterior ring", ErrInvalidPolygon)
	}
	shell, err := ring(rings[0])
	if err != nil {
		return nil, err
	}
	return NewPolygon(shell), nil
}

// ring checks length ahead of positions, like taggedPolygon.
func ring(coords [][]float64) (orb.Ring, error) {
	if len(coords) < MinRingSize {
		return nil, fmt.Errorf("%w: ring has %d positions", ErrInvalidPolygon, len(coords))
	}
	pts, err := positions(coords)
	if err != nil {
		return nil, err
	}
	return NewLinearRing(pts)
}

func positions(coords [][]float64) ([]orb.Point, error) {
	pts := make([]orb.Point, 0, len(coords))
	for i, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("position %d: %w", i, ErrInvalidCoordinate)
		}
		pts = append(pts, NewPoint(c[0], c[1]))
	}
	return pts, nil
}
