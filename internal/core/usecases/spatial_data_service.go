package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
	"github.com/souzafcharles/spatialdata/internal/core/ports"
	"github.com/souzafcharles/spatialdata/internal/pkg/geospatial"
)

var tracer = otel.Tracer("spatialdata/usecases")

// DefaultRecordTTL is how long a single record stays cached, in seconds.
const DefaultRecordTTL = 600

// FlatGeometries is the serializer-format input: one untagged nested array per kind.
type FlatGeometries struct {
	Point           []float64       `json:"point"`
	MultiPoint      [][]float64     `json:"multipoint"`
	LineString      [][]float64     `json:"linestring"`
	MultiLineString [][][]float64   `json:"multilinestring"`
	Polygon         [][][]float64   `json:"polygon"`
	MultiPolygon    [][][][]float64 `json:"multipolygon"`
}

// TaggedGeometries is the deserializer-format input: one {type, coordinates}
// document per kind. Missing and null fields are absent.
type TaggedGeometries struct {
	Point           json.RawMessage `json:"point"`
	MultiPoint      json.RawMessage `json:"multipoint"`
	LineString      json.RawMessage `json:"linestring"`
	MultiLineString json.RawMessage `json:"multilinestring"`
	Polygon         json.RawMessage `json:"polygon"`
	MultiPolygon    json.RawMessage `json:"multipolygon"`
}

// SpatialDataService creates and reads spatial records.
type SpatialDataService struct {
	repo      ports.SpatialDataRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	ttl       int
}

// NewSpatialDataService creates a new SpatialDataService. cache and publisher may be nil.
func NewSpatialDataService(repo ports.SpatialDataRepository, cache ports.CacheService, publisher ports.EventPublisher) *SpatialDataService {
	return &SpatialDataService{repo: repo, cache: cache, publisher: publisher, ttl: DefaultRecordTTL}
}

// WithCacheTTL overrides the per-record cache TTL in seconds.
func (s *SpatialDataService) WithCacheTTL(seconds int) *SpatialDataService {
	if seconds > 0 {
		s.ttl = seconds
	}
	return s
}

// CreateFromCoordinates stores a record from a bare point and polygon.
// Other kinds are not read on this path.
func (s *SpatialDataService) CreateFromCoordinates(ctx context.Context, point []float64, polygon [][][]float64) (rec *domain.SpatialRecord, err error) {
	ctx, span := tracer.Start(ctx, "spatial-data.create-coordinates")
	defer func() { endSpan(span, err) }()

	rec = &domain.SpatialRecord{Point: geospatial.DecodePoint(point)}
	if rec.Polygon, err = geospatial.DecodePolygon(polygon); err != nil {
		return nil, err
	}
	return s.store(ctx, rec, domain.FormatCoordinates)
}

// CreateFromSerializerFormat decodes each flat field independently.
// Empty fields leave their slot absent. A malformed field fails the whole request.
func (s *SpatialDataService) CreateFromSerializerFormat(ctx context.Context, in FlatGeometries) (rec *domain.SpatialRecord, err error) {
	ctx, span := tracer.Start(ctx, "spatial-data.create-serializer")
	defer func() { endSpan(span, err) }()

	rec = &domain.SpatialRecord{Point: geospatial.DecodePoint(in.Point)}
	if rec.MultiPoint, err = geospatial.DecodeMultiPoint(in.MultiPoint); err != nil {
		return nil, err
	}
	if rec.LineString, err = geospatial.DecodeLineString(in.LineString); err != nil {
		return nil, err
	}
	if rec.MultiLineString, err = geospatial.DecodeMultiLineString(in.MultiLineString); err != nil {
		return nil, err
	}
	if rec.Polygon, err = geospatial.DecodePolygon(in.Polygon); err != nil {
		return nil, err
	}
	if rec.MultiPolygon, err = geospatial.DecodeMultiPolygon(in.MultiPolygon); err != nil {
		return nil, err
	}
	return s.store(ctx, rec, domain.FormatSerializer)
}

// CreateFromDeserializerFormat decodes each tagged document. Only Point,
// LineString and Polygon tags decode, so a populated multi-kind field is
// always rejected.
func (s *SpatialDataService) CreateFromDeserializerFormat(ctx context.Context, in TaggedGeometries) (rec *domain.SpatialRecord, err error) {
	ctx, span := tracer.Start(ctx, "spatial-data.create-deserializer")
	defer func() { endSpan(span, err) }()

	rec = &domain.SpatialRecord{}
	if rec.Point, err = decodeField[orb.Point]("point", in.Point); err != nil {
		return nil, err
	}
	if rec.MultiPoint, err = decodeField[orb.MultiPoint]("multipoint", in.MultiPoint); err != nil {
		return nil, err
	}
	if rec.LineString, err = decodeField[orb.LineString]("linestring", in.LineString); err != nil {
		return nil, err
	}
	if rec.MultiLineString, err = decodeField[orb.MultiLineString]("multilinestring", in.MultiLineString); err != nil {
		return nil, err
	}
	if rec.Polygon, err = decodeField[orb.Polygon]("polygon", in.Polygon); err != nil {
		return nil, err
	}
	if rec.MultiPolygon, err = decodeField[orb.MultiPolygon]("multipolygon", in.MultiPolygon); err != nil {
		return nil, err
	}
	return s.store(ctx, rec, domain.FormatDeserializer)
}

func decodeField[T orb.Geometry](field string, raw json.RawMessage) (*T, error) {
	v, err := geospatial.DecodeDocumentAs[T](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func (s *SpatialDataService) store(ctx context.Context, rec *domain.SpatialRecord, format domain.CreateFormat) (*domain.SpatialRecord, error) {
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create spatial data: %w", err)
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("spatial_data.id", rec.ID),
		attribute.StringSlice("spatial_data.kinds", rec.Kinds()),
		attribute.Bool("spatial_data.empty", rec.IsEmpty()),
	)

	if s.publisher != nil {
		event := &domain.SpatialDataCreated{
			EventID:    uuid.NewString(),
			RecordID:   rec.ID,
			Format:     format,
			Kinds:      rec.Kinds(),
			OccurredAt: time.Now().UTC(),
		}
		// Best effort; the record is already committed.
		_ = s.publisher.PublishSpatialDataCreated(ctx, event)
	}

	return rec, nil
}

// List returns one page of records and the total count.
func (s *SpatialDataService) List(ctx context.Context, offset, limit int) ([]domain.SpatialRecord, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count spatial data: %w", err)
	}
	if offset >= total {
		return []domain.SpatialRecord{}, total, nil
	}

	records, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list spatial data: %w", err)
	}
	return records, total, nil
}

// GetByID returns a single record, reading through the cache.
func (s *SpatialDataService) GetByID(ctx context.Context, id int64) (*domain.SpatialRecord, error) {
	cacheKey := recordCacheKey(id)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var rec domain.SpatialRecord
			if err := json.Unmarshal(data, &rec); err == nil {
				return &rec, nil
			}
		}
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "spatial data", ID: id}
		}
		return nil, fmt.Errorf("get spatial data %d: %w", id, err)
	}

	s.cacheRecord(ctx, rec)
	return rec, nil
}

// GetPolygonAsGeoJSON wraps the record's polygon in a Feature.
func (s *SpatialDataService) GetPolygonAsGeoJSON(ctx context.Context, id int64) (*geospatial.Feature, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	feature, err := geospatial.NewFeature(rec.Polygon, map[string]any{
		"description": "Polygon from database",
		"id":          rec.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("spatial data with id %d: %w", id, err)
	}
	return feature, nil
}

// WarmCache loads a freshly created record into the cache. It is driven by
// record-created events so every replica shares the work.
func (s *SpatialDataService) WarmCache(ctx context.Context, event *domain.SpatialDataCreated) error {
	if s.cache == nil {
		return nil
	}
	rec, err := s.repo.GetByID(ctx, event.RecordID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("warm cache for %d: %w", event.RecordID, err)
	}
	s.cacheRecord(ctx, rec)
	return nil
}

func (s *SpatialDataService) cacheRecord(ctx context.Context, rec *domain.SpatialRecord) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(rec); err == nil {
		_ = s.cache.Set(ctx, recordCacheKey(rec.ID), data, s.ttl)
	}
}

func recordCacheKey(id int64) string {
	return fmt.Sprintf("spatial:id:%d", id)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
