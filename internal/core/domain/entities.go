package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a store constraint.
	ErrConflict = errors.New("data integrity violation")
)

// NotFoundError names the missing entity. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %v", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SpatialRecord is a stored row with up to six independent geometry slots.
// A nil slot means the geometry was not provided.
type SpatialRecord struct {
	ID              int64                `json:"id"`
	Point           *orb.Point           `json:"point,omitempty"`
	MultiPoint      *orb.MultiPoint      `json:"multi_point,omitempty"`
	LineString      *orb.LineString      `json:"line_string,omitempty"`
	MultiLineString *orb.MultiLineString `json:"multi_line_string,omitempty"`
	Polygon         *orb.Polygon         `json:"polygon,omitempty"`
	MultiPolygon    *orb.MultiPolygon    `json:"multi_polygon,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// CreateFormat names the request shape a record was created from.
type CreateFormat string

const (
	FormatCoordinates  CreateFormat = "coordinates"
	FormatSerializer   CreateFormat = "serializer"
	FormatDeserializer CreateFormat = "deserializer"
)

// SpatialDataCreated is published after a record is stored.
type SpatialDataCreated struct {
	EventID    string       `json:"event_id"`
	RecordID   int64        `json:"record_id"`
	Format     CreateFormat `json:"format"`
	Kinds      []string     `json:"kinds"`
	OccurredAt time.Time    `json:"occurred_at"`
}
