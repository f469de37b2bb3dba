package model

import "time"

// Event represents a bookable occurrence with a fixed seat capacity and a
// per-seat price. AvailableSeats is decremented by the booking workflow
// and must never drop below zero; the repository enforces this with a
// conditional update rather than a read-then-write sequence.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – event title.
//  Description    – long-form description.
//  CategoryID     – optional reference into the categories table.
//  Date           – event date formatted as YYYY-MM-DD.
//  Time           – start time as stored (e.g. "19:00").
//  Location       – venue or city.
//  ImageURL       – promotional image reference.
//  AvailableSeats – seats still open for booking (>= 0).
//  TotalSeats     – full capacity (>= AvailableSeats).
//  PriceCents     – price per seat in cents (0 = free event).
//  CreatedAt      – creation timestamp.
type Event struct {
	ID             uint64    // events.id
	Title          string    // events.title
	Description    string    // events.description
	CategoryID     *uint64   // events.category_id (nullable)
	Date           string    // events.date (DATE, formatted)
	Time           string    // events.time
	Location       string    // events.location
	ImageURL       string    // events.image_url
	AvailableSeats uint32    // events.available_seats
	TotalSeats     uint32    // events.total_seats
	PriceCents     uint32    // events.price_cents
	CreatedAt      time.Time // events.created_at
}
