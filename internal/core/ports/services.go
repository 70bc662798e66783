package ports

import (
	"context"

	"github.com/souzafcharles/spatialdata/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSpatialDataCreated(ctx context.Context, event *domain.SpatialDataCreated) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeSpatialDataCreated(ctx context.Context, handler func(ctx context.Context, event *domain.SpatialDataCreated) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}
