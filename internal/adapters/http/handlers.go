package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"github.com/samber/lo"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
	"github.com/souzafcharles/spatialdata/internal/core/usecases"
	"github.com/souzafcharles/spatialdata/internal/pkg/geospatial"
	"github.com/souzafcharles/spatialdata/internal/pkg/metrics"
)

// SpatialDataResponse is the wire form of a stored record. Every slot is
// always present; absent geometries are null.
type SpatialDataResponse struct {
	ID              int64                `json:"id"`
	Point           *geospatial.Document `json:"point"`
	MultiPoint      *geospatial.Document `json:"multiPoint"`
	LineString      *geospatial.Document `json:"lineString"`
	MultiLineString *geospatial.Document `json:"multiLineString"`
	Polygon         *geospatial.Document `json:"polygon"`
	MultiPolygon    *geospatial.Document `json:"multiPolygon"`
	CreatedAt       time.Time            `json:"createdAt"`
}

func encodeSlot[T orb.Geometry](g *T) *geospatial.Document {
	if g == nil {
		return nil
	}
	return geospatial.Encode(*g)
}

func toResponse(rec domain.SpatialRecord) SpatialDataResponse {
	return SpatialDataResponse{
		ID:              rec.ID,
		Point:           encodeSlot(rec.Point),
		MultiPoint:      encodeSlot(rec.MultiPoint),
		LineString:      encodeSlot(rec.LineString),
		MultiLineString: encodeSlot(rec.MultiLineString),
		Polygon:         encodeSlot(rec.Polygon),
		MultiPolygon:    encodeSlot(rec.MultiPolygon),
		CreatedAt:       rec.CreatedAt,
	}
}

// coordinatesRequest is the body of the plain create endpoint.
type coordinatesRequest struct {
	Point   []float64     `json:"point"`
	Polygon [][][]float64 `json:"polygon"`
}

// parseBody decodes the request body into v. The returned *fiber.Error is
// rendered by ErrorHandler, so callers must stop on it.
func parseBody(c *fiber.Ctx, v any) error {
	if err := c.App().Config().JSONDecoder(c.Body(), v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidJSON)
	}
	return nil
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil
}

func created(c *fiber.Ctx, rec *domain.SpatialRecord, format domain.CreateFormat) error {
	metrics.RecordsCreated.WithLabelValues(string(format)).Inc()
	c.Location(fmt.Sprintf("/v1/spatial-data/%d", rec.ID))
	return c.Status(fiber.StatusCreated).JSON(toResponse(*rec))
}

// CreateSpatialDataHandler stores a record from a bare point and polygon.
func CreateSpatialDataHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req coordinatesRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		rec, err := deps.SpatialData.CreateFromCoordinates(c.UserContext(), req.Point, req.Polygon)
		if err != nil {
			return writeError(c, err)
		}
		return created(c, rec, domain.FormatCoordinates)
	}
}

// CreateSerializedHandler stores a record from flat nested arrays.
func CreateSerializedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.FlatGeometries
		if err := parseBody(c, &req); err != nil {
			return err
		}
		rec, err := deps.SpatialData.CreateFromSerializerFormat(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return created(c, rec, domain.FormatSerializer)
	}
}

// CreateDeserializedHandler stores a record from tagged geometry documents.
func CreateDeserializedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req usecases.TaggedGeometries
		if err := parseBody(c, &req); err != nil {
			return err
		}
		rec, err := deps.SpatialData.CreateFromDeserializerFormat(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return created(c, rec, domain.FormatDeserializer)
	}
}

func listPage(c *fiber.Ctx, deps *Dependencies) ([]SpatialDataResponse, Pagination, error) {
	offset, limit := pageParams(c)
	records, total, err := deps.SpatialData.List(c.UserContext(), offset, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	pg := Pagination{Offset: offset, Limit: limit, Total: total}
	SetLinkHeaders(c, pg)
	data := lo.Map(records, func(r domain.SpatialRecord, _ int) SpatialDataResponse {
		return toResponse(r)
	})
	return data, pg, nil
}

// ListSpatialDataHandler returns one page of records with pagination metadata.
func ListSpatialDataHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, pg, err := listPage(c, deps)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(PaginatedResponse{Data: data, Pagination: pg})
	}
}

// LegacyListSpatialDataHandler returns a bare array of records. Paging is
// still applied and advertised through Link headers.
func LegacyListSpatialDataHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, _, err := listPage(c, deps)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(data)
	}
}

// GetSpatialDataHandler returns a single record.
func GetSpatialDataHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return errBadRequest(c, msgInvalidID)
		}
		rec, err := deps.SpatialData.GetByID(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(toResponse(*rec))
	}
}

// PolygonGeoJSONHandler returns the record's polygon wrapped in a Feature.
func PolygonGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return errBadRequest(c, msgInvalidID)
		}
		feature, err := deps.SpatialData.GetPolygonAsGeoJSON(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(feature, "application/geo+json")
	}
}
