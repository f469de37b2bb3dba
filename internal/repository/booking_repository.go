package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"eventbook/internal/model"
)

// BookingRepo persists bookings and owns the seat inventory mutation that
// accompanies them. Creating a booking and decrementing available_seats
// happen inside a single transaction; the decrement is guarded by
// `available_seats >= n` so the invariant available_seats >= 0 holds even
// under concurrent bookings against the same event. There is no separate
// read-then-write step to race against.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create books `seats` seats on the event for the user. It returns the
// stored booking with its generated ID and public reference. Failure
// modes: ErrEventNotFound when the event does not exist and
// ErrInsufficientSeats when fewer than `seats` seats remain. In both
// cases nothing is written.
func (r *BookingRepo) Create(ctx context.Context, userID, eventID uint64, seats uint32) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the event row to fix the price for the rest of the transaction.
	var priceCents uint32
	err = tx.QueryRowContext(ctx,
		`SELECT price_cents FROM events WHERE id = ? FOR UPDATE`, eventID).Scan(&priceCents)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	// Conditional decrement: zero rows affected means not enough seats.
	res, err := tx.ExecContext(ctx,
		`UPDATE events SET available_seats = available_seats - ?
		 WHERE id = ? AND available_seats >= ?`,
		seats, eventID, seats)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrInsufficientSeats
	}

	b := &model.Booking{
		Reference:       uuid.NewString(),
		UserID:          userID,
		EventID:         eventID,
		SeatsBooked:     seats,
		Status:          model.BookingStatusConfirmed,
		TotalPriceCents: uint64(seats) * uint64(priceCents),
		BookingDate:     time.Now().UTC().Format("2006-01-02"),
	}
	ins, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (reference, user_id, event_id, seats_booked, status, total_price_cents, booking_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.UserID, b.EventID, b.SeatsBooked, b.Status, b.TotalPriceCents, b.BookingDate)
	if err != nil {
		return nil, err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return nil, err
	}
	b.ID = uint64(id)

	// Read back timestamps and defaults.
	err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// BookedEvent carries the slice of event data shown next to a booking in
// history listings.
type BookedEvent struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	ImageURL   string `json:"image_url"`
	PriceCents uint32 `json:"price_cents"`
}

// BookingDetail is a booking joined with its event. Event is nil when the
// referenced event no longer exists; such orphaned bookings are still
// returned so the caller can surface them instead of silently dropping
// rows.
type BookingDetail struct {
	ID              uint64       `json:"id"`
	Reference       string       `json:"reference"`
	EventID         uint64       `json:"event_id"`
	SeatsBooked     uint32       `json:"seats_booked"`
	Status          string       `json:"status"`
	TotalPriceCents uint64       `json:"total_price_cents"`
	BookingDate     string       `json:"booking_date"`
	CreatedAt       time.Time    `json:"created_at"`
	Event           *BookedEvent `json:"event"`
}

const bookingDetailQuery = `
	SELECT b.id, b.reference, b.event_id, b.seats_booked, b.status,
	       b.total_price_cents, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.created_at,
	       e.id, e.title, DATE_FORMAT(e.date, '%Y-%m-%d'), e.time, e.location,
	       e.image_url, e.price_cents
	FROM bookings b
	LEFT JOIN events e ON e.id = b.event_id`

func scanBookingDetail(sc interface{ Scan(...any) error }) (BookingDetail, error) {
	var (
		det        BookingDetail
		evID       sql.NullInt64
		evTitle    sql.NullString
		evDate     sql.NullString
		evTime     sql.NullString
		evLocation sql.NullString
		evImage    sql.NullString
		evPrice    sql.NullInt64
	)
	err := sc.Scan(
		&det.ID, &det.Reference, &det.EventID, &det.SeatsBooked, &det.Status,
		&det.TotalPriceCents, &det.BookingDate, &det.CreatedAt,
		&evID, &evTitle, &evDate, &evTime, &evLocation, &evImage, &evPrice,
	)
	if err != nil {
		return BookingDetail{}, err
	}
	if evID.Valid {
		det.Event = &BookedEvent{
			ID:         uint64(evID.Int64),
			Title:      evTitle.String,
			Date:       evDate.String,
			Time:       evTime.String,
			Location:   evLocation.String,
			ImageURL:   evImage.String,
			PriceCents: uint32(evPrice.Int64),
		}
	}
	return det, nil
}

// ListByUser returns the user's bookings newest first, each joined with
// its event when the event still exists.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	q := bookingDetailQuery + `
	WHERE b.user_id = ?
	ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BookingDetail, 0, 16)
	for rows.Next() {
		det, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, det)
	}
	return out, rows.Err()
}

// GetByReferenceForUser loads one booking by its public reference,
// restricted to the calling user to enforce ownership.
func (r *BookingRepo) GetByReferenceForUser(ctx context.Context, ref string, userID uint64) (*BookingDetail, error) {
	q := bookingDetailQuery + `
	WHERE b.reference = ? AND b.user_id = ?
	LIMIT 1`
	det, err := scanBookingDetail(r.db.QueryRowContext(ctx, q, ref, userID))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &det, nil
}

// CancelByReference marks the booking cancelled and returns its seats to
// the event, capped at total_seats. Cancelling an already cancelled
// booking is a no-op that reports the current state.
func (r *BookingRepo) CancelByReference(ctx context.Context, ref string, userID uint64) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b := &model.Booking{Reference: ref, UserID: userID}
	err = tx.QueryRowContext(ctx,
		`SELECT id, event_id, seats_booked, status, total_price_cents,
		        DATE_FORMAT(booking_date, '%Y-%m-%d'), created_at
		 FROM bookings WHERE reference = ? AND user_id = ? FOR UPDATE`,
		ref, userID).Scan(&b.ID, &b.EventID, &b.SeatsBooked, &b.Status,
		&b.TotalPriceCents, &b.BookingDate, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingStatusCancelled {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return b, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`,
		model.BookingStatusCancelled, b.ID); err != nil {
		return nil, err
	}
	// Return the seats; LEAST keeps available_seats <= total_seats even if
	// inventory was adjusted out of band. A missing event row is tolerated.
	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET available_seats = LEAST(total_seats, available_seats + ?)
		 WHERE id = ?`,
		b.SeatsBooked, b.EventID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	b.Status = model.BookingStatusCancelled
	return b, nil
}

// ConfirmedSeats sums seats_booked across confirmed bookings for an
// event. Used by tests and consistency checks against total_seats.
func (r *BookingRepo) ConfirmedSeats(ctx context.Context, eventID uint64) (uint64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(seats_booked) FROM bookings WHERE event_id = ? AND status = ?`,
		eventID, model.BookingStatusConfirmed).Scan(&total)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return uint64(total.Int64), nil
}
