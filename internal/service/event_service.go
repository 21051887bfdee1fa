package service

import (
	"context"
	"time"

	"github.com/witthaya/event-booking-api/internal/domain"
	"github.com/witthaya/event-booking-api/internal/dto"
	"github.com/witthaya/event-booking-api/internal/repository"
	"github.com/witthaya/event-booking-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EventService defines the interface for event read operations
type EventService interface {
	// ListEvents retrieves all events
	ListEvents(ctx context.Context) ([]*dto.EventResponse, error)

	// ListUpcomingEvents retrieves events that have not yet started
	ListUpcomingEvents(ctx context.Context) ([]*dto.EventResponse, error)

	// GetEvent retrieves an event with its confirmed booking count
	GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error)

	// GetCapacity retrieves an event's seat availability
	GetCapacity(ctx context.Context, eventID string) (*dto.CapacityResponse, error)
}

// eventService implements EventService
type eventService struct {
	eventRepo   repository.EventRepository
	bookingRepo repository.BookingRepository
	now         func() time.Time
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository, bookingRepo repository.BookingRepository) EventService {
	return &eventService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		now:         time.Now,
	}
}

// ListEvents retrieves all events
func (s *eventService) ListEvents(ctx context.Context) ([]*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list")
	defer span.End()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses, err := s.withConfirmedCounts(ctx, events)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return responses, nil
}

// ListUpcomingEvents retrieves events that have not yet started
func (s *eventService) ListUpcomingEvents(ctx context.Context) ([]*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list_upcoming")
	defer span.End()

	events, err := s.eventRepo.ListUpcoming(ctx, s.now())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses, err := s.withConfirmedCounts(ctx, events)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return responses, nil
}

// GetEvent retrieves an event with its confirmed booking count
func (s *eventService) GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()

	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}

	span.SetAttributes(attribute.String("event_id", eventID))

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	confirmed, err := s.bookingRepo.CountConfirmed(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.NewEventResponse(event, confirmed), nil
}

// GetCapacity retrieves an event's seat availability. The confirmed count is
// derived from booking rows at query time so it reflects committed state.
func (s *eventService) GetCapacity(ctx context.Context, eventID string) (*dto.CapacityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.capacity")
	defer span.End()

	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}

	span.SetAttributes(attribute.String("event_id", eventID))

	capacity, confirmed, err := s.eventRepo.AvailableCapacity(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	available := capacity - confirmed
	if available < 0 {
		available = 0
	}

	span.SetStatus(codes.Ok, "")
	return &dto.CapacityResponse{
		EventID:   eventID,
		Capacity:  capacity,
		Confirmed: confirmed,
		Available: available,
	}, nil
}

func (s *eventService) withConfirmedCounts(ctx context.Context, events []*domain.Event) ([]*dto.EventResponse, error) {
	responses := make([]*dto.EventResponse, 0, len(events))
	for _, event := range events {
		confirmed, err := s.bookingRepo.CountConfirmed(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewEventResponse(event, confirmed))
	}
	return responses, nil
}
