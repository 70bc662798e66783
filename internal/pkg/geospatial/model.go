// Package geospatial converts between the nested-array / tagged-document
// geometry wire format and orb geometry values.
package geospatial

import (
	"fmt"

	"github.com/paulmach/orb"
)

// SRID is the spatial reference of every coordinate handled by the API (WGS 84).
const SRID = 4326

// MinRingSize is the smallest number of positions that can form a closed ring.
const MinRingSize = 4

// Kind names one of the six geometry kinds the API stores.
type Kind string

const (
	KindPoint           Kind = "Point"
	KindLineString      Kind = "LineString"
	KindPolygon         Kind = "Polygon"
	KindMultiPoint      Kind = "MultiPoint"
	KindMultiLineString Kind = "MultiLineString"
	KindMultiPolygon    Kind = "MultiPolygon"
)

// NewPoint builds a point from an (x, y) = (lon, lat) pair.
func NewPoint(x, y float64) orb.Point {
	return orb.Point{x, y}
}

// NewLineString builds a line string. Zero or one positions are accepted.
func NewLineString(pts []orb.Point) orb.LineString {
	return orb.LineString(pts)
}

// NewLinearRing builds a polygon ring and rejects anything shorter than
// MinRingSize positions.
func NewLinearRing(pts []orb.Point) (orb.Ring, error) {
	if len(pts) < MinRingSize {
		return nil, fmt.Errorf("%w: ring has %d positions", ErrInvalidPolygon, len(pts))
	}
	return orb.Ring(pts), nil
}

// NewPolygon builds a polygon from its shell and optional holes.
func NewPolygon(shell orb.Ring, holes ...orb.Ring) orb.Polygon {
	p := make(orb.Polygon, 0, 1+len(holes))
	p = append(p, shell)
	return append(p, holes...)
}

func NewMultiPoint(pts []orb.Point) orb.MultiPoint {
	return orb.MultiPoint(pts)
}

func NewMultiLineString(lines []orb.LineString) orb.MultiLineString {
	return orb.MultiLineString(lines)
}

func NewMultiPolygon(polys []orb.Polygon) orb.MultiPolygon {
	return orb.MultiPolygon(polys)
}
