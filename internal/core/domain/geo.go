package domain

import (
	"github.com/paulmach/orb"
	"github.com/samber/lo"
)

// Geometries returns the populated slots in fixed slot order:
// point, multipoint, linestring, multilinestring, polygon, multipolygon.
func (r *SpatialRecord) Geometries() []orb.Geometry {
	var out []orb.Geometry
	if r.Point != nil {
		out = append(out, *r.Point)
	}
	if r.MultiPoint != nil {
		out = append(out, *r.MultiPoint)
	}
	if r.LineString != nil {
		out = append(out, *r.LineString)
	}
	if r.MultiLineString != nil {
		out = append(out, *r.MultiLineString)
	}
	if r.Polygon != nil {
		out = append(out, *r.Polygon)
	}
	if r.MultiPolygon != nil {
		out = append(out, *r.MultiPolygon)
	}
	return out
}

// Kinds lists the geometry type names of the populated slots.
func (r *SpatialRecord) Kinds() []string {
	return lo.Map(r.Geometries(), func(g orb.Geometry, _ int) string {
		return g.GeoJSONType()
	})
}

// IsEmpty reports whether no slot is populated.
func (r *SpatialRecord) IsEmpty() bool {
	return len(r.Geometries()) == 0
}
