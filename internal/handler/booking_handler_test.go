package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/witthaya/event-booking-api/internal/domain"
	"github.com/witthaya/event-booking-api/internal/dto"
	"github.com/witthaya/event-booking-api/internal/middleware"
)

// MockBookingService is a mock implementation of BookingService for testing
type MockBookingService struct {
	RequestBookingFunc    func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	CancelBookingFunc     func(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error)
	GetBookingFunc        func(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error)
	ListUserBookingsFunc  func(ctx context.Context, userID string) ([]*dto.BookingResponse, error)
	ListEventBookingsFunc func(ctx context.Context, eventID string) ([]*dto.EventBookingResponse, error)
}

func (m *MockBookingService) RequestBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if m.RequestBookingFunc != nil {
		return m.RequestBookingFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockBookingService) CancelBooking(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
	if m.CancelBookingFunc != nil {
		return m.CancelBookingFunc(ctx, bookingID, userID, isAdmin)
	}
	return nil, nil
}

func (m *MockBookingService) GetBooking(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, bookingID, userID, isAdmin)
	}
	return nil, nil
}

func (m *MockBookingService) ListUserBookings(ctx context.Context, userID string) ([]*dto.BookingResponse, error) {
	if m.ListUserBookingsFunc != nil {
		return m.ListUserBookingsFunc(ctx, userID)
	}
	return []*dto.BookingResponse{}, nil
}

func (m *MockBookingService) ListEventBookings(ctx context.Context, eventID string) ([]*dto.EventBookingResponse, error) {
	if m.ListEventBookingsFunc != nil {
		return m.ListEventBookingsFunc(ctx, eventID)
	}
	return []*dto.EventBookingResponse{}, nil
}

func setupBookingRouter(h *BookingHandler, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
			c.Set(middleware.ContextUserRole, role)
		}
		c.Next()
	})

	bookings := router.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.DELETE("/:id", h.CancelBooking)
	}
	router.GET("/admin/events/:id/bookings", h.ListEventBookings)

	return router
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		request        *dto.CreateBookingRequest
		mockFunc       func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:    "successful booking",
			userID:  "user-123",
			request: &dto.CreateBookingRequest{EventID: "event-123"},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return &dto.BookingResponse{
					ID:      "booking-123",
					UserID:  userID,
					EventID: req.EventID,
					Status:  "CONFIRMED",
				}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unauthorized without identity",
			userID:         "",
			request:        &dto.CreateBookingRequest{EventID: "event-123"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "missing event id rejected by binding",
			userID:         "user-123",
			request:        &dto.CreateBookingRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:    "event not found",
			userID:  "user-123",
			request: &dto.CreateBookingRequest{EventID: "missing"},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrEventNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "EVENT_NOT_FOUND",
		},
		{
			name:    "duplicate booking conflicts",
			userID:  "user-123",
			request: &dto.CreateBookingRequest{EventID: "event-123"},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrAlreadyBooked
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "ALREADY_BOOKED",
		},
		{
			name:    "event in past",
			userID:  "user-123",
			request: &dto.CreateBookingRequest{EventID: "event-123"},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrEventInPast
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "EVENT_IN_PAST",
		},
		{
			name:    "event full",
			userID:  "user-123",
			request: &dto.CreateBookingRequest{EventID: "event-123"},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrEventFull
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "EVENT_FULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockBookingService{RequestBookingFunc: tt.mockFunc}
			h := NewBookingHandler(svc)
			router := setupBookingRouter(h, tt.userID, "USER")

			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("CreateBooking() status = %d, want %d", w.Code, tt.expectedStatus)
			}

			if tt.expectedCode != "" {
				var errResp dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
					t.Fatalf("failed to decode error response: %v", err)
				}
				if errResp.Code != tt.expectedCode {
					t.Errorf("CreateBooking() code = %q, want %q", errResp.Code, tt.expectedCode)
				}
			}
		})
	}
}

func TestBookingHandler_CancelBooking(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		role           string
		bookingID      string
		mockFunc       func(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:      "successful cancel",
			userID:    "user-123",
			role:      "USER",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
				if isAdmin {
					t.Error("expected isAdmin=false for USER role")
				}
				return &dto.BookingResponse{
					ID:        bookingID,
					UserID:    userID,
					Status:    "CANCELLED",
					UpdatedAt: time.Now(),
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "admin role is forwarded",
			userID:    "admin-1",
			role:      "ADMIN",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
				if !isAdmin {
					t.Error("expected isAdmin=true for ADMIN role")
				}
				return &dto.BookingResponse{ID: bookingID, Status: "CANCELLED"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized without identity",
			userID:         "",
			bookingID:      "booking-123",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:      "booking not found",
			userID:    "user-123",
			role:      "USER",
			bookingID: "missing",
			mockFunc: func(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
				return nil, domain.ErrBookingNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "BOOKING_NOT_FOUND",
		},
		{
			name:      "already cancelled",
			userID:    "user-123",
			role:      "USER",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
				return nil, domain.ErrAlreadyCancelled
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "ALREADY_CANCELLED",
		},
		{
			name:      "event already started",
			userID:    "user-123",
			role:      "USER",
			bookingID: "booking-123",
			mockFunc: func(ctx context.Context, bookingID, userID string, isAdmin bool) (*dto.BookingResponse, error) {
				return nil, domain.ErrEventStarted
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "EVENT_STARTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockBookingService{CancelBookingFunc: tt.mockFunc}
			h := NewBookingHandler(svc)
			router := setupBookingRouter(h, tt.userID, tt.role)

			req := httptest.NewRequest(http.MethodDelete, "/bookings/"+tt.bookingID, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("CancelBooking() status = %d, want %d", w.Code, tt.expectedStatus)
			}

			if tt.expectedCode != "" {
				var errResp dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
					t.Fatalf("failed to decode error response: %v", err)
				}
				if errResp.Code != tt.expectedCode {
					t.Errorf("CancelBooking() code = %q, want %q", errResp.Code, tt.expectedCode)
				}
			}
		})
	}
}

func TestBookingHandler_ListMyBookings(t *testing.T) {
	svc := &MockBookingService{
		ListUserBookingsFunc: func(ctx context.Context, userID string) ([]*dto.BookingResponse, error) {
			return []*dto.BookingResponse{
				{ID: "booking-1", UserID: userID, Status: "CONFIRMED"},
				{ID: "booking-2", UserID: userID, Status: "CANCELLED"},
			}, nil
		},
	}
	h := NewBookingHandler(svc)
	router := setupBookingRouter(h, "user-123", "USER")

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ListMyBookings() status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []*dto.BookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("ListMyBookings() count = %d, want 2", len(resp))
	}
}

func TestBookingHandler_ListEventBookings(t *testing.T) {
	svc := &MockBookingService{
		ListEventBookingsFunc: func(ctx context.Context, eventID string) ([]*dto.EventBookingResponse, error) {
			if eventID == "missing" {
				return nil, domain.ErrEventNotFound
			}
			return []*dto.EventBookingResponse{
				{ID: "booking-1", EventID: eventID, Status: "CONFIRMED"},
			}, nil
		},
	}
	h := NewBookingHandler(svc)
	router := setupBookingRouter(h, "admin-1", "ADMIN")

	t.Run("returns bookings", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/events/event-123/bookings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("ListEventBookings() status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("missing event", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/events/missing/bookings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("ListEventBookings() status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
