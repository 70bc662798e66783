package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
	"github.com/souzafcharles/spatialdata/internal/pkg/geospatial"
)

// SpatialDataRepo implements ports.SpatialDataRepository with pgx.
// Geometries cross the wire as WKB.
type SpatialDataRepo struct {
	db *DB
}

// NewSpatialDataRepo creates a new SpatialDataRepo.
func NewSpatialDataRepo(db *DB) *SpatialDataRepo {
	return &SpatialDataRepo{db: db}
}

const selectSpatialData = `
	SELECT id,
	       ST_AsBinary(point), ST_AsBinary(multipoint),
	       ST_AsBinary(linestring), ST_AsBinary(multilinestring),
	       ST_AsBinary(polygon), ST_AsBinary(multipolygon),
	       created_at
	FROM spatial_data`

// Create inserts rec and fills in its ID and CreatedAt.
func (r *SpatialDataRepo) Create(ctx context.Context, rec *domain.SpatialRecord) error {
	var args [6][]byte
	var err error
	if args[0], err = encodeWKB(rec.Point); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if args[1], err = encodeWKB(rec.MultiPoint); err != nil {
		return fmt.Errorf("multipoint: %w", err)
	}
	if args[2], err = encodeWKB(rec.LineString); err != nil {
		return fmt.Errorf("linestring: %w", err)
	}
	if args[3], err = encodeWKB(rec.MultiLineString); err != nil {
		return fmt.Errorf("multilinestring: %w", err)
	}
	if args[4], err = encodeWKB(rec.Polygon); err != nil {
		return fmt.Errorf("polygon: %w", err)
	}
	if args[5], err = encodeWKB(rec.MultiPolygon); err != nil {
		return fmt.Errorf("multipolygon: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO spatial_data (point, multipoint, linestring, multilinestring, polygon, multipolygon)
		VALUES (
			ST_GeomFromWKB($1, $7), ST_GeomFromWKB($2, $7),
			ST_GeomFromWKB($3, $7), ST_GeomFromWKB($4, $7),
			ST_GeomFromWKB($5, $7), ST_GeomFromWKB($6, $7)
		)
		RETURNING id, created_at
	`, args[0], args[1], args[2], args[3], args[4], args[5], geospatial.SRID).Scan(&rec.ID, &rec.CreatedAt)

	// Class 23 covers integrity constraint violations.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
	}
	return err
}

// GetByID returns a record by primary key.
func (r *SpatialDataRepo) GetByID(ctx context.Context, id int64) (*domain.SpatialRecord, error) {
	rec, err := scanRecord(r.db.Pool.QueryRow(ctx, selectSpatialData+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns records ordered by id.
func (r *SpatialDataRepo) List(ctx context.Context, offset, limit int) ([]domain.SpatialRecord, error) {
	rows, err := r.db.Pool.Query(ctx, selectSpatialData+` ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.SpatialRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (r *SpatialDataRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM spatial_data`).Scan(&n)
	return n, err
}

func scanRecord(row pgx.Row) (*domain.SpatialRecord, error) {
	var (
		rec domain.SpatialRecord
		raw [6][]byte
		err error
	)
	if err = row.Scan(&rec.ID, &raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5], &rec.CreatedAt); err != nil {
		return nil, err
	}

	if rec.Point, err = decodeWKB[orb.Point](raw[0]); err != nil {
		return nil, err
	}
	if rec.MultiPoint, err = decodeWKB[orb.MultiPoint](raw[1]); err != nil {
		return nil, err
	}
	if rec.LineString, err = decodeWKB[orb.LineString](raw[2]); err != nil {
		return nil, err
	}
	if rec.MultiLineString, err = decodeWKB[orb.MultiLineString](raw[3]); err != nil {
		return nil, err
	}
	if rec.Polygon, err = decodeWKB[orb.Polygon](raw[4]); err != nil {
		return nil, err
	}
	if rec.MultiPolygon, err = decodeWKB[orb.MultiPolygon](raw[5]); err != nil {
		return nil, err
	}
	return &rec, nil
}

func encodeWKB[T orb.Geometry](g *T) ([]byte, error) {
	if g == nil {
		return nil, nil
	}
	return wkb.Marshal(*g)
}

func decodeWKB[T orb.Geometry](data []byte) (*T, error) {
	if data == nil {
		return nil, nil
	}
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode wkb: %w", err)
	}
	v, ok := g.(T)
	if !ok {
		var want T
		return nil, fmt.Errorf("decode wkb: got %s, want %s", g.GeoJSONType(), want.GeoJSONType())
	}
	return &v, nil
}
