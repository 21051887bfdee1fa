package domain

import (
	"errors"
	"testing"
	"time"
)

func TestBookingStatus_IsValid(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{BookingStatusConfirmed, true},
		{BookingStatusCancelled, true},
		{BookingStatus("RESERVED"), false},
		{BookingStatus(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestBooking_Cancel(t *testing.T) {
	now := time.Now()

	t.Run("confirmed booking cancels", func(t *testing.T) {
		b := &Booking{ID: "b-1", Status: BookingStatusConfirmed}
		if err := b.Cancel(now); err != nil {
			t.Fatalf("Cancel() unexpected error = %v", err)
		}
		if b.Status != BookingStatusCancelled {
			t.Errorf("status = %q, want CANCELLED", b.Status)
		}
		if !b.UpdatedAt.Equal(now) {
			t.Errorf("updated_at = %v, want %v", b.UpdatedAt, now)
		}
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		b := &Booking{ID: "b-1", Status: BookingStatusCancelled}
		if err := b.Cancel(now); !errors.Is(err, ErrAlreadyCancelled) {
			t.Errorf("Cancel() error = %v, want %v", err, ErrAlreadyCancelled)
		}
	})
}

func TestBooking_BelongsToUser(t *testing.T) {
	b := &Booking{UserID: "user-1"}
	if !b.BelongsToUser("user-1") {
		t.Error("BelongsToUser() = false for owner")
	}
	if b.BelongsToUser("user-2") {
		t.Error("BelongsToUser() = true for stranger")
	}
}

func TestEvent_IsPast(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"future event", now.Add(time.Hour), false},
		{"past event", now.Add(-time.Hour), true},
		{"event starting now", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Event{Date: tt.date}
			if got := e.IsPast(now); got != tt.want {
				t.Errorf("IsPast() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvent_HasCapacityFor(t *testing.T) {
	e := &Event{Capacity: 2}

	if !e.HasCapacityFor(0) {
		t.Error("HasCapacityFor(0) = false, want true")
	}
	if !e.HasCapacityFor(1) {
		t.Error("HasCapacityFor(1) = false, want true")
	}
	if e.HasCapacityFor(2) {
		t.Error("HasCapacityFor(2) = true, want false")
	}
}

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		err          error
		notFound     bool
		conflict     bool
		invalidState bool
		validation   bool
	}{
		{err: ErrEventNotFound, notFound: true},
		{err: ErrBookingNotFound, notFound: true},
		{err: ErrAlreadyBooked, conflict: true},
		{err: ErrEventInPast, invalidState: true},
		{err: ErrEventFull, invalidState: true},
		{err: ErrAlreadyCancelled, invalidState: true},
		{err: ErrEventStarted, invalidState: true},
		{err: ErrInvalidEventID, validation: true},
		{err: errors.New("boom")},
	}

	for _, tt := range tests {
		if got := IsNotFoundError(tt.err); got != tt.notFound {
			t.Errorf("IsNotFoundError(%v) = %v, want %v", tt.err, got, tt.notFound)
		}
		if got := IsConflictError(tt.err); got != tt.conflict {
			t.Errorf("IsConflictError(%v) = %v, want %v", tt.err, got, tt.conflict)
		}
		if got := IsInvalidStateError(tt.err); got != tt.invalidState {
			t.Errorf("IsInvalidStateError(%v) = %v, want %v", tt.err, got, tt.invalidState)
		}
		if got := IsValidationError(tt.err); got != tt.validation {
			t.Errorf("IsValidationError(%v) = %v, want %v", tt.err, got, tt.validation)
		}
	}
}
