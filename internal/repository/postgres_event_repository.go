package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/witthaya/event-booking-api/internal/domain"
	"github.com/witthaya/event-booking-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PostgresEventRepository implements EventRepository using PostgreSQL with pgxpool
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

const eventColumns = `id, title, description, date, location, capacity, price, image_url, created_at, updated_at`

// GetByID retrieves an event by its ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrEventNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// List retrieves all events ordered by date
func (r *PostgresEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.list")
	defer span.End()

	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`

	return r.queryEvents(ctx, span, query)
}

// ListUpcoming retrieves events whose date is still in the future
func (r *PostgresEventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.list_upcoming")
	defer span.End()

	query := `SELECT ` + eventColumns + ` FROM events WHERE date > $1 ORDER BY date ASC`

	return r.queryEvents(ctx, span, query, now)
}

// AvailableCapacity returns the event's capacity alongside its confirmed
// booking count, derived at query time.
func (r *PostgresEventRepository) AvailableCapacity(ctx context.Context, eventID string) (int, int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.available_capacity")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	query := `
		SELECT
			e.capacity,
			(SELECT COUNT(*) FROM bookings b WHERE b.event_id = e.id AND b.status = 'CONFIRMED')
		FROM events e
		WHERE e.id = $1
	`

	var capacity, confirmed int
	err := r.pool.QueryRow(ctx, query, eventID).Scan(&capacity, &confirmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return 0, 0, domain.ErrEventNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, fmt.Errorf("failed to get event capacity: %w", err)
	}

	span.SetAttributes(
		attribute.Int("capacity", capacity),
		attribute.Int("confirmed", confirmed),
	)
	span.SetStatus(codes.Ok, "")
	return capacity, confirmed, nil
}

func (r *PostgresEventRepository) queryEvents(ctx context.Context, span trace.Span, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(events)))
	span.SetStatus(codes.Ok, "")
	return events, nil
}

// scanEvent scans an event row into a domain.Event
func scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	var description, imageURL *string
	err := row.Scan(
		&event.ID,
		&event.Title,
		&description,
		&event.Date,
		&event.Location,
		&event.Capacity,
		&event.Price,
		&imageURL,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		event.Description = *description
	}
	if imageURL != nil {
		event.ImageURL = *imageURL
	}
	return event, nil
}

// Ensure PostgresEventRepository implements EventRepository
var _ EventRepository = (*PostgresEventRepository)(nil)
