package geospatial

import (
	"github.com/paulmach/orb"
	"github.com/samber/lo"
)

// Document is the tagged {type, coordinates} form written to clients.
// Coordinates is omitted for kinds the encoder cannot express.
type Document struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates,omitempty"`
}

// Feature wraps one geometry with free-form properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Document      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Encode returns the tagged document for g, or nil when g is nil.
// Polygons are written with their exterior ring only.
func Encode(g orb.Geometry) *Document {
	if g == nil {
		return nil
	}

	switch v := g.(type) {
	case orb.Point:
		return &Document{Type: string(KindPoint), Coordinates: position(v)}
	case orb.LineString:
		return &Document{Type: string(KindLineString), Coordinates: positionList(v)}
	case orb.Polygon:
		return &Document{Type: string(KindPolygon), Coordinates: shellOnly(v)}
	case orb.MultiPoint:
		return &Document{Type: string(KindMultiPoint), Coordinates: positionList(v)}
	case orb.MultiLineString:
		return &Document{
			Type: string(KindMultiLineString),
			Coordinates: lo.Map(v, func(ls orb.LineString, _ int) [][]float64 {
				return positionList(ls)
			}),
		}
	case orb.MultiPolygon:
		return &Document{
			Type: string(KindMultiPolygon),
			Coordinates: lo.Map(v, func(p orb.Polygon, _ int) [][][]float64 {
				return shellOnly(p)
			}),
		}
	default:
		return &Document{Type: fallbackTypeName(g)}
	}
}

// NewFeature wraps a polygon in a Feature. A nil polygon is ErrNoPolygon.
func NewFeature(p *orb.Polygon, properties map[string]any) (*Feature, error) {
	if p == nil {
		return nil, ErrNoPolygon
	}
	if properties == nil {
		properties = map[string]any{}
	}
	return &Feature{
		Type:       "Feature",
		Geometry:   Encode(*p),
		Properties: properties,
	}, nil
}

func position(p orb.Point) []float64 {
	return []float64{p[0], p[1]}
}

func positionList(pts []orb.Point) [][]float64 {
	return lo.Map(pts, func(p orb.Point, _ int) []float64 {
		return position(p)
	})
}

func shellOnly(p orb.Polygon) [][][]float64 {
	if len(p) == 0 {
		return [][][]float64{}
	}
	return [][][]float64{positionList(p[0])}
}

func fallbackTypeName(g orb.Geometry) string {
	switch g.(type) {
	case orb.Ring:
		return "LinearRing"
	case orb.Bound:
		return "Envelope"
	default:
		return g.GeoJSONType()
	}
}
