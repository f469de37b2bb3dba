// Package repository implements the data access layer over MySQL. This
// file defines sentinel errors shared across repositories so handlers can
// translate failure modes into distinct HTTP responses instead of a single
// generic 500.
package repository

import "errors"

// ErrInsufficientSeats is returned when a booking asks for more seats than
// the event currently has available. The conditional decrement inside the
// booking transaction guarantees this is detected atomically, so two
// concurrent bookings can never jointly oversell an event. Handlers should
// translate this into HTTP 409.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrEventNotFound is returned when a referenced event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when a booking lookup matches no row for
// the calling user. Listing endpoints return empty slices instead.
var ErrBookingNotFound = errors.New("booking not found")

// ErrCategoryNotFound is returned when a category lookup matches no row.
var ErrCategoryNotFound = errors.New("category not found")
