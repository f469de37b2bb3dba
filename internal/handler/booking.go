package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"eventbook/internal/model"
	"eventbook/internal/queue"
	"eventbook/internal/repository"
)

// BookingStore is the slice of the booking repository the handler uses.
// The atomicity of create/cancel lives behind this interface: a single
// call either fully books (insert + guarded seat decrement) or changes
// nothing.
type BookingStore interface {
	Create(ctx context.Context, userID, eventID uint64, seats uint32) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
	GetByReferenceForUser(ctx context.Context, ref string, userID uint64) (*repository.BookingDetail, error)
	CancelByReference(ctx context.Context, ref string, userID uint64) (*model.Booking, error)
}

// EventGetter resolves an event for enrichment of the confirmation event.
type EventGetter interface {
	GetByID(ctx context.Context, id uint64) (model.Event, error)
}

// ConfirmationPublisher pushes booking confirmations to the message
// broker. Publish failures are non-fatal; the booking is already
// committed when publishing happens.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingHandler implements the reservation workflow endpoints. JWT
// middleware runs before every method; the principal is read from the
// request context on each call.
type BookingHandler struct {
	Bookings  BookingStore
	Events    EventGetter
	Publisher ConfirmationPublisher // optional
}

func NewBookingHandler(bookings BookingStore, events EventGetter, pub ConfirmationPublisher) *BookingHandler {
	if bookings == nil || events == nil {
		panic("nil store passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Events: events, Publisher: pub}
}

type createBookingReq struct {
	Seats uint32 `json:"seats"`
}

type bookingResp struct {
	ID              uint64    `json:"id"`
	Reference       string    `json:"reference"`
	EventID         uint64    `json:"event_id"`
	SeatsBooked     uint32    `json:"seats_booked"`
	Status          string    `json:"status"`
	TotalPriceCents uint64    `json:"total_price_cents"`
	TotalPrice      float64   `json:"total_price"`
	BookingDate     string    `json:"booking_date"`
	CreatedAt       time.Time `json:"created_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:              b.ID,
		Reference:       b.Reference,
		EventID:         b.EventID,
		SeatsBooked:     b.SeatsBooked,
		Status:          b.Status,
		TotalPriceCents: b.TotalPriceCents,
		TotalPrice:      float64(b.TotalPriceCents) / 100.0,
		BookingDate:     b.BookingDate,
		CreatedAt:       b.CreatedAt,
	}
}

// CreateBooking handles POST /v1/events/:id/bookings. Requests for fewer
// than one seat are rejected with 400 and requests exceeding the current
// availability with 409; there is no silent clamping, the caller always
// learns what happened. On success 201 carries the stored booking.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Seats < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be at least 1"})
	}

	ctx := c.Request().Context()
	booking, err := h.Bookings.Create(ctx, userID, eventID, req.Seats)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrInsufficientSeats):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	h.publishConfirmed(ctx, booking)

	return c.JSON(http.StatusCreated, toBookingResp(booking))
}

// publishConfirmed emits the booking.confirmed event, enriched with event
// data when the event can still be loaded. Errors are swallowed; the
// publisher logs them and the booking is already durable.
func (h *BookingHandler) publishConfirmed(ctx context.Context, b *model.Booking) {
	if h.Publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:       b.ID,
		Reference:       b.Reference,
		UserID:          b.UserID,
		EventID:         b.EventID,
		Seats:           b.SeatsBooked,
		TotalPriceCents: b.TotalPriceCents,
		ConfirmedAt:     b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if event, err := h.Events.GetByID(ctx, b.EventID); err == nil {
		ev.EventTitle = event.Title
		ev.EventDate = event.Date
		ev.Location = event.Location
	}
	_ = h.Publisher.PublishBookingConfirmed(ctx, ev)
}

// ListMyBookings handles GET /v1/bookings: the caller's booking history,
// newest first, each row joined with its event. Bookings whose event has
// vanished are still listed with a null event so clients can show them as
// orphaned instead of losing them.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:ref, looking up one booking by its
// public reference for the calling user.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ref := c.Param("ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	det, err := h.Bookings.GetByReferenceForUser(c.Request().Context(), ref, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, det)
}

// CancelBooking handles POST /v1/bookings/:ref/cancel. The seats go back
// to the event inside the same transaction that flips the status;
// cancelling twice is safe and reports the already-cancelled booking.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ref := c.Param("ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	booking, err := h.Bookings.CancelByReference(c.Request().Context(), ref, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}
