package metrics

import (
	"context"
	"sync"

	"github.com/witthaya/event-booking-api/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Booking counters
	BookingsAdmitted  *telemetry.Counter
	BookingsRejected  *telemetry.Counter
	BookingsCancelled *telemetry.Counter

	// Histograms
	AdmissionDuration *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init initializes all booking metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsAdmitted, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_admissions_total",
		Description: "Total number of bookings admitted",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsRejected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_rejections_total",
		Description: "Total number of booking requests rejected, by reason",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_cancellations_total",
		Description: "Total number of bookings cancelled",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	AdmissionDuration, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "booking_admission_duration_seconds",
		Description: "Time spent admitting a booking request",
		Unit:        "s",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordAdmission records a successful booking admission
func RecordAdmission(ctx context.Context, eventID string, durationSeconds float64) {
	if BookingsAdmitted != nil {
		BookingsAdmitted.Inc(ctx, attribute.String("event_id", eventID))
	}
	if AdmissionDuration != nil {
		AdmissionDuration.Record(ctx, durationSeconds, attribute.String("event_id", eventID))
	}
}

// RecordRejection records a rejected booking request with its reason
func RecordRejection(ctx context.Context, eventID, reason string) {
	if BookingsRejected != nil {
		BookingsRejected.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.String("reason", reason),
		)
	}
}

// RecordCancellation records a booking cancellation
func RecordCancellation(ctx context.Context, eventID string) {
	if BookingsCancelled != nil {
		BookingsCancelled.Inc(ctx, attribute.String("event_id", eventID))
	}
}
