package dto

import (
	"time"

	"github.com/witthaya/event-booking-api/internal/domain"
)

// EventResponse is an event with its derived confirmed-booking count.
// The count is always computed from current-status rows, never cached.
type EventResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	Capacity       int       `json:"capacity"`
	Price          float64   `json:"price"`
	ImageURL       string    `json:"image_url,omitempty"`
	ConfirmedCount int       `json:"confirmed_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewEventResponse builds an EventResponse from an event and its confirmed count
func NewEventResponse(e *domain.Event, confirmed int) *EventResponse {
	return &EventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date,
		Location:       e.Location,
		Capacity:       e.Capacity,
		Price:          e.Price,
		ImageURL:       e.ImageURL,
		ConfirmedCount: confirmed,
		CreatedAt:      e.CreatedAt,
	}
}

// CapacityResponse reports the remaining capacity of an event
type CapacityResponse struct {
	EventID   string `json:"event_id"`
	Capacity  int    `json:"capacity"`
	Confirmed int    `json:"confirmed"`
	Available int    `json:"available"`
}
