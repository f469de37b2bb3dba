package model

import "time"

// Booking statuses. A booking is written as CONFIRMED by the booking
// workflow; CANCELLED is reached only through the explicit cancel
// operation, which also returns the seats to the event.
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusPending   = "PENDING"
	BookingStatusCancelled = "CANCELLED"
)

// Booking records a user's reservation of one or more seats for an event.
// TotalPriceCents is fixed at booking time (seats * event price) and does
// not track later price changes on the event.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – public UUID handed to clients instead of the row id.
//  UserID          – owning principal.
//  EventID         – event being booked.
//  SeatsBooked     – number of seats reserved (>= 1).
//  Status          – CONFIRMED, PENDING or CANCELLED.
//  TotalPriceCents – seats_booked * event price in cents at booking time.
//  BookingDate     – date the booking applies to (YYYY-MM-DD).
//  CreatedAt       – creation timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	Reference       string    // bookings.reference
	UserID          uint64    // bookings.user_id
	EventID         uint64    // bookings.event_id
	SeatsBooked     uint32    // bookings.seats_booked
	Status          string    // bookings.status
	TotalPriceCents uint64    // bookings.total_price_cents
	BookingDate     string    // bookings.booking_date (DATE, formatted)
	CreatedAt       time.Time // bookings.created_at
}
