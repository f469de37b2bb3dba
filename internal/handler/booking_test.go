package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventbook/internal/model"
	"eventbook/internal/queue"
	"eventbook/internal/repository"
)

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) Create(ctx context.Context, userID, eventID uint64, seats uint32) (*model.Booking, error) {
	args := m.Called(ctx, userID, eventID, seats)
	if b := args.Get(0); b != nil {
		return b.(*model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingStore) ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]repository.BookingDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingStore) GetByReferenceForUser(ctx context.Context, ref string, userID uint64) (*repository.BookingDetail, error) {
	args := m.Called(ctx, ref, userID)
	if v := args.Get(0); v != nil {
		return v.(*repository.BookingDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingStore) CancelByReference(ctx context.Context, ref string, userID uint64) (*model.Booking, error) {
	args := m.Called(ctx, ref, userID)
	if b := args.Get(0); b != nil {
		return b.(*model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEventGetter struct{ mock.Mock }

func (m *mockEventGetter) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Event), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func newBookingCtx(method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func TestCreateBooking_Success(t *testing.T) {
	store := new(mockBookingStore)
	events := new(mockEventGetter)
	pub := new(mockPublisher)

	booking := &model.Booking{
		ID:              7,
		Reference:       "8f14e45f-ceea-4672-9d69-6f1bce1a9b3e",
		UserID:          42,
		EventID:         3,
		SeatsBooked:     2,
		Status:          model.BookingStatusConfirmed,
		TotalPriceCents: 9000,
		BookingDate:     "2026-09-01",
		CreatedAt:       time.Now().UTC(),
	}
	store.On("Create", mock.Anything, uint64(42), uint64(3), uint32(2)).Return(booking, nil)
	events.On("GetByID", mock.Anything, uint64(3)).Return(model.Event{
		ID: 3, Title: "Jazz Night", Date: "2026-10-10", Location: "Blue Hall",
	}, nil)
	pub.On("PublishBookingConfirmed", mock.Anything, mock.MatchedBy(func(ev queue.BookingConfirmedEvent) bool {
		return ev.Reference == booking.Reference && ev.EventTitle == "Jazz Night" && ev.Seats == 2
	})).Return(nil)

	h := NewBookingHandler(store, events, pub)
	c, rec := newBookingCtx(http.MethodPost, "/v1/events/3/bookings", `{"seats":2}`, 42)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, booking.Reference, resp.Reference)
	assert.Equal(t, uint64(9000), resp.TotalPriceCents)
	assert.InDelta(t, 90.0, resp.TotalPrice, 0.001)
	assert.Equal(t, model.BookingStatusConfirmed, resp.Status)

	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateBooking_ZeroSeats(t *testing.T) {
	store := new(mockBookingStore)
	h := NewBookingHandler(store, new(mockEventGetter), nil)

	c, rec := newBookingCtx(http.MethodPost, "/v1/events/3/bookings", `{"seats":0}`, 42)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seats must be at least 1")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_InsufficientSeats(t *testing.T) {
	store := new(mockBookingStore)
	store.On("Create", mock.Anything, uint64(42), uint64(3), uint32(5)).
		Return(nil, repository.ErrInsufficientSeats)
	h := NewBookingHandler(store, new(mockEventGetter), nil)

	c, rec := newBookingCtx(http.MethodPost, "/v1/events/3/bookings", `{"seats":5}`, 42)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough seats available")
}

func TestCreateBooking_EventNotFound(t *testing.T) {
	store := new(mockBookingStore)
	store.On("Create", mock.Anything, uint64(42), uint64(999), uint32(1)).
		Return(nil, repository.ErrEventNotFound)
	h := NewBookingHandler(store, new(mockEventGetter), nil)

	c, rec := newBookingCtx(http.MethodPost, "/v1/events/999/bookings", `{"seats":1}`, 42)
	c.SetParamNames("id")
	c.SetParamValues("999")

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBooking_InvalidEventID(t *testing.T) {
	h := NewBookingHandler(new(mockBookingStore), new(mockEventGetter), nil)

	c, rec := newBookingCtx(http.MethodPost, "/v1/events/abc/bookings", `{"seats":1}`, 42)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_PublisherFailureStillCreated(t *testing.T) {
	store := new(mockBookingStore)
	events := new(mockEventGetter)
	pub := new(mockPublisher)

	booking := &model.Booking{ID: 1, Reference: "ref-1", UserID: 42, EventID: 3,
		SeatsBooked: 1, Status: model.BookingStatusConfirmed, TotalPriceCents: 4500}
	store.On("Create", mock.Anything, uint64(42), uint64(3), uint32(1)).Return(booking, nil)
	events.On("GetByID", mock.Anything, uint64(3)).Return(model.Event{}, repository.ErrEventNotFound)
	pub.On("PublishBookingConfirmed", mock.Anything, mock.Anything).
		Return(assert.AnError)

	h := NewBookingHandler(store, events, pub)
	c, rec := newBookingCtx(http.MethodPost, "/v1/events/3/bookings", `{"seats":1}`, 42)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.CreateBooking(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListMyBookings_OrphanKeepsNullEvent(t *testing.T) {
	store := new(mockBookingStore)
	store.On("ListByUser", mock.Anything, uint64(42)).Return([]repository.BookingDetail{
		{
			ID: 2, Reference: "ref-live", EventID: 3, SeatsBooked: 2,
			Status: model.BookingStatusConfirmed, TotalPriceCents: 9000,
			Event: &repository.BookedEvent{ID: 3, Title: "Jazz Night"},
		},
		{
			ID: 1, Reference: "ref-orphan", EventID: 99, SeatsBooked: 1,
			Status: model.BookingStatusConfirmed, TotalPriceCents: 4500,
			Event:  nil,
		},
	}, nil)

	h := NewBookingHandler(store, new(mockEventGetter), nil)
	c, rec := newBookingCtx(http.MethodGet, "/v1/bookings", "", 42)

	require.NoError(t, h.ListMyBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)

	var orphan struct {
		Reference string          `json:"reference"`
		Event     json.RawMessage `json:"event"`
	}
	require.NoError(t, json.Unmarshal(resp.Items[1], &orphan))
	assert.Equal(t, "ref-orphan", orphan.Reference)
	assert.Equal(t, "null", string(orphan.Event))
}

func TestGetBooking_NotFound(t *testing.T) {
	store := new(mockBookingStore)
	store.On("GetByReferenceForUser", mock.Anything, "missing", uint64(42)).
		Return(nil, repository.ErrBookingNotFound)

	h := NewBookingHandler(store, new(mockEventGetter), nil)
	c, rec := newBookingCtx(http.MethodGet, "/v1/bookings/missing", "", 42)
	c.SetParamNames("ref")
	c.SetParamValues("missing")

	require.NoError(t, h.GetBooking(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelBooking(t *testing.T) {
	store := new(mockBookingStore)
	cancelled := &model.Booking{
		ID: 7, Reference: "ref-7", UserID: 42, EventID: 3, SeatsBooked: 2,
		Status: model.BookingStatusCancelled, TotalPriceCents: 9000,
	}
	store.On("CancelByReference", mock.Anything, "ref-7", uint64(42)).Return(cancelled, nil)

	h := NewBookingHandler(store, new(mockEventGetter), nil)
	c, rec := newBookingCtx(http.MethodPost, "/v1/bookings/ref-7/cancel", "", 42)
	c.SetParamNames("ref")
	c.SetParamValues("ref-7")

	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.BookingStatusCancelled, resp.Status)
	store.AssertExpectations(t)
}
