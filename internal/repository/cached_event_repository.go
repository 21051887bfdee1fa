package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/witthaya/event-booking-api/internal/domain"
	"github.com/witthaya/event-booking-api/pkg/logger"
	"github.com/witthaya/event-booking-api/pkg/redis"
	"github.com/witthaya/event-booking-api/pkg/retry"
	"github.com/witthaya/event-booking-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// CachedEventRepository decorates an EventRepository with a Redis read-through
// cache for single-event lookups. Capacity queries always hit the database:
// availability must reflect committed bookings, so it is never cached.
//
// Cache failures degrade to the underlying repository, they are logged but
// never surfaced to the caller.
type CachedEventRepository struct {
	inner   EventRepository
	cache   *redis.Client
	ttl     time.Duration
	retrier *retry.Retrier
}

// NewCachedEventRepository creates a new CachedEventRepository
func NewCachedEventRepository(inner EventRepository, cache *redis.Client, ttl time.Duration) *CachedEventRepository {
	return &CachedEventRepository{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		retrier: retry.New(retry.DefaultConfig()),
	}
}

func eventCacheKey(eventID string) string {
	return fmt.Sprintf("event:%s", eventID)
}

// GetByID retrieves an event, serving from cache when possible
func (r *CachedEventRepository) GetByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.cached.event.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	key := eventCacheKey(eventID)
	cached, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		event := &domain.Event{}
		if err := json.Unmarshal([]byte(cached), event); err == nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			span.SetStatus(codes.Ok, "")
			return event, nil
		}
		// Corrupt entry, drop it and fall through.
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, goredis.Nil) {
		logger.Get().Warn("event cache read failed",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))

	// Transient store failures are retried; a missing event is final.
	var event *domain.Event
	err = r.retrier.Do(ctx, func(ctx context.Context) error {
		var opErr error
		event, opErr = r.inner.GetByID(ctx, eventID)
		if errors.Is(opErr, domain.ErrEventNotFound) {
			return retry.Permanent(opErr)
		}
		return opErr
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if data, err := json.Marshal(event); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl).Err(); err != nil {
			logger.Get().Warn("event cache write failed",
				zap.String("event_id", eventID),
				zap.Error(err),
			)
		}
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// List retrieves all events, always from the underlying repository
func (r *CachedEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	return r.inner.List(ctx)
}

// ListUpcoming retrieves upcoming events, always from the underlying repository
func (r *CachedEventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	return r.inner.ListUpcoming(ctx, now)
}

// AvailableCapacity is never cached
func (r *CachedEventRepository) AvailableCapacity(ctx context.Context, eventID string) (int, int, error) {
	return r.inner.AvailableCapacity(ctx, eventID)
}

// Ensure CachedEventRepository implements EventRepository
var _ EventRepository = (*CachedEventRepository)(nil)
