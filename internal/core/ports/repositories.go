package ports

import (
	"context"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
)

// SpatialDataRepository persists spatial records.
type SpatialDataRepository interface {
	// Create stores rec and sets its ID and CreatedAt.
	Create(ctx context.Context, rec *domain.SpatialRecord) error
	// GetByID returns domain.ErrNotFound when no record has the id.
	GetByID(ctx context.Context, id int64) (*domain.SpatialRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.SpatialRecord, error)
	Count(ctx context.Context) (int, error)
}
