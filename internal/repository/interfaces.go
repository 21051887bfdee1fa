package repository

import (
	"context"
	"time"

	"github.com/witthaya/event-booking-api/internal/domain"
)

// BookingRepository defines the data access contract for bookings.
//
// CreateConfirmed is the admission path: every precondition that guards a new
// booking (event exists, event in the future, no prior booking by the user,
// seats remaining) is evaluated inside a single transaction that holds a
// row-level lock on the event, so two concurrent requests can never both pass
// the capacity check. Implementations must not split the checks and the
// insert across round trips.
type BookingRepository interface {
	// CreateConfirmed admits a booking for the user on the event, returning
	// the stored booking joined with its event projection. Possible domain
	// errors: ErrEventNotFound, ErrEventInPast, ErrAlreadyBooked, ErrEventFull.
	CreateConfirmed(ctx context.Context, userID, eventID string, now time.Time) (*domain.BookingWithEvent, error)

	// Cancel transitions a CONFIRMED booking to CANCELLED. The update is
	// conditional on the current status so a concurrent double-cancel loses
	// cleanly with ErrAlreadyCancelled.
	Cancel(ctx context.Context, bookingID string, now time.Time) error

	// GetByID retrieves a booking joined with its event projection.
	GetByID(ctx context.Context, bookingID string) (*domain.BookingWithEvent, error)

	// GetByUserAndEvent retrieves the user's booking on an event regardless
	// of status. Returns ErrBookingNotFound when none exists.
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Booking, error)

	// ListByUser retrieves all bookings owned by the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.BookingWithEvent, error)

	// ListByEvent retrieves all bookings on an event joined with the owning
	// user, newest first. Used by the admin listing.
	ListByEvent(ctx context.Context, eventID string) ([]*domain.BookingWithUser, error)

	// CountConfirmed returns the number of CONFIRMED bookings on an event.
	CountConfirmed(ctx context.Context, eventID string) (int, error)
}

// EventRepository defines read access to events. Seat availability is always
// derived from confirmed bookings at query time, never from a stored counter.
type EventRepository interface {
	GetByID(ctx context.Context, eventID string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Event, error)

	// AvailableCapacity returns the event's capacity alongside its confirmed
	// booking count. Returns ErrEventNotFound when the event does not exist.
	AvailableCapacity(ctx context.Context, eventID string) (capacity, confirmed int, err error)
}

// UserRepository defines read access to users, consumed by the identity
// middleware when resolving the authenticated caller.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}
