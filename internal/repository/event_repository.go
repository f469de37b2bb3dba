package repository

import (
	"context"
	"database/sql"
	"strings"

	"eventbook/internal/model"
)

// EventRepo provides read access to the events catalog. All mutation of
// available_seats happens inside the booking transaction (see
// BookingRepo); the catalog itself treats events as read-only.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// EventFilter describes an optional filter set for catalog queries. Zero
// values mean "no constraint". Availability accepts "all", "available"
// and "soldout"; anything else is treated as "all".
type EventFilter struct {
	CategoryID   uint64 // filter by category, 0 = any
	FromDate     string // minimum date (YYYY-MM-DD), "" = any
	Availability string // all | available | soldout
	Query        string // case-insensitive substring over title or location
}

// buildEventFilter turns an EventFilter into a WHERE condition and its
// bind arguments. Kept separate from List so the clause assembly can be
// tested without a database.
func buildEventFilter(f EventFilter) (string, []any) {
	where := []string{}
	args := []any{}

	if f.CategoryID != 0 {
		where = append(where, "e.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.FromDate != "" {
		where = append(where, "e.date >= ?")
		args = append(args, f.FromDate)
	}
	switch strings.ToLower(f.Availability) {
	case "available":
		where = append(where, "e.available_seats > 0")
	case "soldout":
		where = append(where, "e.available_seats = 0")
	}
	if f.Query != "" {
		where = append(where, "(LOWER(e.title) LIKE ? OR LOWER(e.location) LIKE ?)")
		needle := "%" + strings.ToLower(f.Query) + "%"
		args = append(args, needle, needle)
	}

	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

const eventColumns = `e.id, e.title, e.description, e.category_id,
	DATE_FORMAT(e.date, '%Y-%m-%d'), e.time, e.location, e.image_url,
	e.available_seats, e.total_seats, e.price_cents, e.created_at`

func scanEvent(sc interface{ Scan(...any) error }) (model.Event, error) {
	var (
		ev    model.Event
		catID sql.NullInt64
	)
	err := sc.Scan(
		&ev.ID, &ev.Title, &ev.Description, &catID,
		&ev.Date, &ev.Time, &ev.Location, &ev.ImageURL,
		&ev.AvailableSeats, &ev.TotalSeats, &ev.PriceCents, &ev.CreatedAt,
	)
	if err != nil {
		return model.Event{}, err
	}
	if catID.Valid {
		cid := uint64(catID.Int64)
		ev.CategoryID = &cid
	}
	return ev, nil
}

// List returns all events matching the filter ordered by ascending date.
// A query that matches nothing yields an empty slice, not an error.
func (r *EventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, error) {
	cond, args := buildEventFilter(f)
	q := `SELECT ` + eventColumns + `
	      FROM events e
	      WHERE ` + cond + `
	      ORDER BY e.date ASC, e.time ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Event, 0, 32)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Upcoming returns events dated today or later, soonest first, capped at
// limit rows. Used by the home feed.
func (r *EventRepo) Upcoming(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 6
	}
	q := `SELECT ` + eventColumns + `
	      FROM events e
	      WHERE e.date >= CURDATE()
	      ORDER BY e.date ASC, e.time ASC
	      LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Event, 0, limit)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// GetByID fetches a single event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = ? LIMIT 1`
	ev, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return model.Event{}, ErrEventNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// EventDetail pairs an event with its resolved category. Category is nil
// when the event has no category or the reference is dangling.
type EventDetail struct {
	Event    model.Event
	Category *model.Category
}

// GetDetail loads an event joined with its category in one round trip.
func (r *EventRepo) GetDetail(ctx context.Context, id uint64) (*EventDetail, error) {
	q := `SELECT ` + eventColumns + `,
	             c.id, c.name, c.icon, c.description
	      FROM events e
	      LEFT JOIN categories c ON c.id = e.category_id
	      WHERE e.id = ? LIMIT 1`
	var (
		det      EventDetail
		evCatID  sql.NullInt64
		catID    sql.NullInt64
		catName  sql.NullString
		catIcon  sql.NullString
		catDescr sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.Event.ID, &det.Event.Title, &det.Event.Description, &evCatID,
		&det.Event.Date, &det.Event.Time, &det.Event.Location, &det.Event.ImageURL,
		&det.Event.AvailableSeats, &det.Event.TotalSeats, &det.Event.PriceCents, &det.Event.CreatedAt,
		&catID, &catName, &catIcon, &catDescr,
	)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if evCatID.Valid {
		cid := uint64(evCatID.Int64)
		det.Event.CategoryID = &cid
	}
	if catID.Valid {
		cat := model.Category{
			ID:   uint64(catID.Int64),
			Name: catName.String,
			Icon: catIcon.String,
		}
		if catDescr.Valid {
			d := catDescr.String
			cat.Description = &d
		}
		det.Category = &cat
	}
	return &det, nil
}
