package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// Booking represents a booking entity. At most one row exists per
// (user, event) pair regardless of status history; rows are never deleted.
type Booking struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	EventID   string        `json:"event_id"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Validate validates all booking fields
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrInvalidBookingID
	}
	if strings.TrimSpace(b.UserID) == "" {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(b.EventID) == "" {
		return ErrInvalidEventID
	}
	if !b.Status.IsValid() {
		return ErrInvalidBookingStatus
	}
	return nil
}

// IsConfirmed checks if the booking is in CONFIRMED status
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsCancelled checks if the booking is in CANCELLED status
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// BelongsToUser checks if the booking belongs to the specified user
func (b *Booking) BelongsToUser(userID string) bool {
	return b.UserID == userID
}

// Cancel transitions the booking to CANCELLED. CANCELLED is terminal; a
// second cancel always fails.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status == BookingStatusCancelled {
		return ErrAlreadyCancelled
	}
	b.Status = BookingStatusCancelled
	b.UpdatedAt = now
	return nil
}

// BookingWithEvent is a booking joined with the read-only projection of its
// event, the shape returned by the admission and cancellation paths.
type BookingWithEvent struct {
	Booking
	Event EventProjection `json:"event"`
}

// BookingWithUser is a booking joined with the read-only projection of its
// owner, the shape returned by the admin per-event listing.
type BookingWithUser struct {
	Booking
	User UserProjection `json:"user"`
}
