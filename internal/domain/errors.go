package domain

import "errors"

// Domain errors
var (
	// Not-found errors
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	// Conflict errors
	ErrAlreadyBooked = errors.New("you have already booked this event")

	// Invalid-state errors
	ErrEventInPast      = errors.New("cannot book past events")
	ErrEventFull        = errors.New("event is fully booked")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrEventStarted     = errors.New("cannot cancel booking for past events")

	// Validation errors
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrInvalidEventID       = errors.New("invalid event id")
	ErrInvalidBookingID     = errors.New("invalid booking id")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyBooked)
}

// IsInvalidStateError checks if the error is an invalid-state error
func IsInvalidStateError(err error) bool {
	return errors.Is(err, ErrEventInPast) ||
		errors.Is(err, ErrEventFull) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrEventStarted)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidBookingStatus)
}

// IsClientError reports whether the error maps to a 4xx response rather than
// a store failure.
func IsClientError(err error) bool {
	return IsNotFoundError(err) || IsConflictError(err) || IsInvalidStateError(err) || IsValidationError(err)
}
