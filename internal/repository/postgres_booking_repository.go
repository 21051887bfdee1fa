package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/witthaya/event-booking-api/internal/domain"
	"github.com/witthaya/event-booking-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// uniqueViolation is the PostgreSQL error code raised when the
// (user_id, event_id) unique index rejects a duplicate booking.
const uniqueViolation = "23505"

// PostgresBookingRepository implements BookingRepository using PostgreSQL with pgxpool
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

// CreateConfirmed admits a booking inside a single transaction.
//
// The event row is locked with SELECT ... FOR UPDATE before any check runs,
// which serialises concurrent admissions per event: a second transaction
// blocks on the lock and re-reads the confirmed count only after the first
// one commits or rolls back. The unique index on (user_id, event_id) backs
// up the duplicate check for writers that bypass this path.
func (r *PostgresBookingRepository) CreateConfirmed(ctx context.Context, userID, eventID string, now time.Time) (*domain.BookingWithEvent, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create_confirmed")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("event_id", eventID),
	)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the event row for the duration of the admission.
	lockQuery := `
		SELECT id, title, date, location, capacity, price
		FROM events
		WHERE id = $1
		FOR UPDATE
	`

	var event domain.EventProjection
	var capacity int
	err = tx.QueryRow(ctx, lockQuery, eventID).Scan(
		&event.ID,
		&event.Title,
		&event.Date,
		&event.Location,
		&capacity,
		&event.Price,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "event not found")
			return nil, domain.ErrEventNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}

	if !event.Date.After(now) {
		span.SetStatus(codes.Error, "event in past")
		return nil, domain.ErrEventInPast
	}

	// A prior booking in any status blocks re-admission.
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}
	if exists {
		span.SetStatus(codes.Error, "already booked")
		return nil, domain.ErrAlreadyBooked
	}

	var confirmed int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = $1 AND status = 'CONFIRMED'`,
		eventID,
	).Scan(&confirmed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to count confirmed bookings: %w", err)
	}
	if confirmed >= capacity {
		span.SetStatus(codes.Error, "event full")
		return nil, domain.ErrEventFull
	}

	booking := &domain.Booking{
		ID:        uuid.New().String(),
		UserID:    userID,
		EventID:   eventID,
		Status:    domain.BookingStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, user_id, event_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		booking.ID,
		booking.UserID,
		booking.EventID,
		booking.Status.String(),
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			span.SetStatus(codes.Error, "already booked")
			return nil, domain.ErrAlreadyBooked
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return &domain.BookingWithEvent{Booking: *booking, Event: event}, nil
}

// Cancel transitions a confirmed booking to cancelled. The status condition
// on the UPDATE makes the transition race-free: whichever of two concurrent
// cancels commits first wins and the loser gets ErrAlreadyCancelled.
func (r *PostgresBookingRepository) Cancel(ctx context.Context, bookingID string, now time.Time) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.cancel")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	query := `
		UPDATE bookings SET
			status = $2,
			updated_at = $3
		WHERE id = $1 AND status = 'CONFIRMED'
	`

	result, err := r.pool.Exec(ctx, query, bookingID, domain.BookingStatusCancelled.String(), now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing booking from one already cancelled.
		var status string
		err := r.pool.QueryRow(ctx, "SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				span.SetStatus(codes.Error, "not found")
				return domain.ErrBookingNotFound
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to check booking status: %w", err)
		}
		span.SetStatus(codes.Error, "already cancelled")
		return domain.ErrAlreadyCancelled
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a booking joined with its event projection
func (r *PostgresBookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.BookingWithEvent, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	query := `
		SELECT
			b.id, b.user_id, b.event_id, b.status, b.created_at, b.updated_at,
			e.id, e.title, e.date, e.location, e.price
		FROM bookings b
		JOIN events e ON b.event_id = e.id
		WHERE b.id = $1
	`

	booking, err := scanBookingWithEvent(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// GetByUserAndEvent retrieves the user's booking on an event regardless of status
func (r *PostgresBookingRepository) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_user_event")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("event_id", eventID),
	)

	query := `
		SELECT id, user_id, event_id, status, created_at, updated_at
		FROM bookings
		WHERE user_id = $1 AND event_id = $2
	`

	booking := &domain.Booking{}
	var status string
	err := r.pool.QueryRow(ctx, query, userID, eventID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.EventID,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	booking.Status = domain.BookingStatus(status)
	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ListByUser retrieves all bookings owned by the user, newest first
func (r *PostgresBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.BookingWithEvent, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `
		SELECT
			b.id, b.user_id, b.event_id, b.status, b.created_at, b.updated_at,
			e.id, e.title, e.date, e.location, e.price
		FROM bookings b
		JOIN events e ON b.event_id = e.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings by user: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.BookingWithEvent
	for rows.Next() {
		booking, err := scanBookingWithEvent(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// ListByEvent retrieves all bookings on an event joined with the owning user
func (r *PostgresBookingRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.BookingWithUser, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_event")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	query := `
		SELECT
			b.id, b.user_id, b.event_id, b.status, b.created_at, b.updated_at,
			u.id, u.name, u.email
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		WHERE b.event_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings by event: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.BookingWithUser
	for rows.Next() {
		booking := &domain.BookingWithUser{}
		var status string
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.EventID,
			&status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&booking.User.ID,
			&booking.User.Name,
			&booking.User.Email,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		booking.Status = domain.BookingStatus(status)
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// CountConfirmed returns the number of confirmed bookings on an event
func (r *PostgresBookingRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.count_confirmed")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = $1 AND status = 'CONFIRMED'`,
		eventID,
	).Scan(&count)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to count confirmed bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", count))
	span.SetStatus(codes.Ok, "")
	return count, nil
}

// scanBookingWithEvent scans a booking row joined with its event projection
func scanBookingWithEvent(row pgx.Row) (*domain.BookingWithEvent, error) {
	booking := &domain.BookingWithEvent{}
	var status string
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.EventID,
		&status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.Event.ID,
		&booking.Event.Title,
		&booking.Event.Date,
		&booking.Event.Location,
		&booking.Event.Price,
	)
	if err != nil {
		return nil, err
	}
	booking.Status = domain.BookingStatus(status)
	return booking, nil
}

// Ensure PostgresBookingRepository implements BookingRepository
var _ BookingRepository = (*PostgresBookingRepository)(nil)
