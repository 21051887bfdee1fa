package dto

import (
	"time"

	"github.com/witthaya/event-booking-api/internal/domain"
)

// CreateBookingRequest is the body of POST /bookings
type CreateBookingRequest struct {
	EventID string `json:"event_id" binding:"required"`
}

// BookingResponse is a booking joined with its event projection
type BookingResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	EventID   string                 `json:"event_id"`
	Status    string                 `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	Event     domain.EventProjection `json:"event"`
}

// NewBookingResponse builds a BookingResponse from the domain shape
func NewBookingResponse(b *domain.BookingWithEvent) *BookingResponse {
	return &BookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		EventID:   b.EventID,
		Status:    b.Status.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
		Event:     b.Event,
	}
}

// EventBookingResponse is a booking joined with its user projection, used by
// the admin per-event listing
type EventBookingResponse struct {
	ID        string                `json:"id"`
	EventID   string                `json:"event_id"`
	Status    string                `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	User      domain.UserProjection `json:"user"`
}

// NewEventBookingResponse builds an EventBookingResponse from the domain shape
func NewEventBookingResponse(b *domain.BookingWithUser) *EventBookingResponse {
	return &EventBookingResponse{
		ID:        b.ID,
		EventID:   b.EventID,
		Status:    b.Status.String(),
		CreatedAt: b.CreatedAt,
		User:      b.User,
	}
}

// ErrorResponse is the error body returned by handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
