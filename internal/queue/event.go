// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking transaction commits.
// It carries enough data for downstream consumers to log or notify
// without querying the primary database. Event fields may be empty when
// the event row could not be loaded at publish time.
type BookingConfirmedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	Reference       string `json:"reference"`
	UserID          uint64 `json:"user_id"`
	EventID         uint64 `json:"event_id"`
	EventTitle      string `json:"event_title"`
	EventDate       string `json:"event_date"`
	Location        string `json:"location"`
	Seats           uint32 `json:"seats"`
	TotalPriceCents uint64 `json:"total_price_cents"`
	ConfirmedAt     string `json:"confirmed_at"`
}
