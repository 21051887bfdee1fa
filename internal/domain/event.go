package domain

import (
	"time"
)

// Event represents an event entity. Capacity is a hard ceiling on the number
// of CONFIRMED bookings; events are never mutated by the booking paths.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPast reports whether the event has already started at time t
func (e *Event) IsPast(t time.Time) bool {
	return !e.Date.After(t)
}

// HasCapacityFor reports whether admitting one more booking on top of
// confirmed would stay within capacity
func (e *Event) HasCapacityFor(confirmed int) bool {
	return confirmed < e.Capacity
}

// EventProjection is the read-only slice of an event returned alongside a
// booking
type EventProjection struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
}

// Projection returns the booking-facing projection of the event
func (e *Event) Projection() EventProjection {
	return EventProjection{
		ID:       e.ID,
		Title:    e.Title,
		Date:     e.Date,
		Location: e.Location,
		Price:    e.Price,
	}
}
