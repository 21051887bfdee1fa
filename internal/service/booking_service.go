package service

import (
	"context"
	"errors"
	"time"

	"github.com/witthaya/event-booking-api/internal/domain"
	"github.com/witthaya/event-booking-api/internal/dto"
	"github.com/witthaya/event-booking-api/internal/metrics"
	"github.com/witthaya/event-booking-api/internal/repository"
	"github.com/witthaya/event-booking-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BookingService defines the interface for booking business logic
type BookingService interface {
	// RequestBooking admits a booking for the user on an event
	RequestBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)

	// CancelBooking cancels a confirmed booking owned by the user
	CancelBooking(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error)

	// GetBooking retrieves a booking visible to the user
	GetBooking(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error)

	// ListUserBookings retrieves all bookings owned by the user
	ListUserBookings(ctx context.Context, userID string) ([]*dto.BookingResponse, error)

	// ListEventBookings retrieves all bookings on an event with their owners
	ListEventBookings(ctx context.Context, eventID string) ([]*dto.EventBookingResponse, error)
}

// bookingService implements BookingService
type bookingService struct {
	bookingRepo repository.BookingRepository
	eventRepo   repository.EventRepository
	now         func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(bookingRepo repository.BookingRepository, eventRepo repository.EventRepository) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		now:         time.Now,
	}
}

// RequestBooking admits a booking for the user on an event.
//
// All preconditions (event exists, event in the future, no prior booking,
// seats remaining) are enforced by the repository inside one transaction.
// The service never pre-checks them with separate reads: a check performed
// here would race with concurrent admissions and could overbook.
func (s *bookingService) RequestBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.request")
	defer span.End()

	if req == nil || req.EventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}
	if userID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("event_id", req.EventID),
	)

	start := s.now()
	booking, err := s.bookingRepo.CreateConfirmed(ctx, userID, req.EventID, start)
	if err != nil {
		metrics.RecordRejection(ctx, req.EventID, rejectionReason(err))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.RecordAdmission(ctx, req.EventID, s.now().Sub(start).Seconds())
	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return dto.NewBookingResponse(booking), nil
}

// CancelBooking cancels a confirmed booking. Only the owner may cancel,
// unless the caller is an admin. Cancellation is refused once the booking is
// already cancelled or the event has started.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
	defer span.End()

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
		attribute.Bool("is_admin", isAdmin),
	)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// A booking owned by someone else is indistinguishable from a missing
	// one for non-admin callers.
	if !isAdmin && !booking.BelongsToUser(userID) {
		span.SetStatus(codes.Error, "not owner")
		return nil, domain.ErrBookingNotFound
	}

	if booking.IsCancelled() {
		span.SetStatus(codes.Error, "already cancelled")
		return nil, domain.ErrAlreadyCancelled
	}

	now := s.now()
	if !booking.Event.Date.After(now) {
		span.SetStatus(codes.Error, "event started")
		return nil, domain.ErrEventStarted
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, now); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.RecordCancellation(ctx, booking.EventID)

	booking.Status = domain.BookingStatusCancelled
	booking.UpdatedAt = now
	span.SetStatus(codes.Ok, "")
	return dto.NewBookingResponse(booking), nil
}

// GetBooking retrieves a booking, restricted to its owner unless the caller is an admin
func (s *bookingService) GetBooking(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !isAdmin && !booking.BelongsToUser(userID) {
		span.SetStatus(codes.Error, "not owner")
		return nil, domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewBookingResponse(booking), nil
}

// ListUserBookings retrieves all bookings owned by the user, newest first
func (s *bookingService) ListUserBookings(ctx context.Context, userID string) ([]*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses := make([]*dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, dto.NewBookingResponse(b))
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return responses, nil
}

// ListEventBookings retrieves all bookings on an event with their owners.
// The event is resolved first so a missing event surfaces as not found
// rather than an empty list.
func (s *bookingService) ListEventBookings(ctx context.Context, eventID string) ([]*dto.EventBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_by_event")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByEvent(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses := make([]*dto.EventBookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, dto.NewEventBookingResponse(b))
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return responses, nil
}

// rejectionReason maps admission errors to a low-cardinality metric label
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, domain.ErrEventInPast):
		return "event_in_past"
	case errors.Is(err, domain.ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, domain.ErrEventFull):
		return "event_full"
	default:
		return "internal"
	}
}
