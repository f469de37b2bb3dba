// This file defines the public catalog handlers. These routes let
// unauthenticated users browse categories and events; all filtering is
// pushed down into the repository so the handlers stay thin.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"eventbook/internal/model"
	"eventbook/internal/repository"
)

// CategoryLister is the slice of the category repository the catalog
// handler needs. Declared on the consumer side so tests can substitute a
// mock.
type CategoryLister interface {
	ListAll(ctx context.Context) ([]model.Category, error)
}

// EventCatalog is the slice of the event repository used by the catalog
// handler.
type EventCatalog interface {
	List(ctx context.Context, f repository.EventFilter) ([]model.Event, error)
	Upcoming(ctx context.Context, limit int) ([]model.Event, error)
	GetDetail(ctx context.Context, id uint64) (*repository.EventDetail, error)
}

// CatalogHandler serves the public browse endpoints.
type CatalogHandler struct {
	Categories CategoryLister
	Events     EventCatalog
}

func NewCatalogHandler(categories CategoryLister, events EventCatalog) *CatalogHandler {
	if categories == nil || events == nil {
		panic("nil store passed to NewCatalogHandler")
	}
	return &CatalogHandler{Categories: categories, Events: events}
}

// PublicCategory is the category shape exposed to clients.
type PublicCategory struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Description *string `json:"description,omitempty"`
}

// PublicEvent is the event shape exposed to clients. Price is derived
// from PriceCents for display convenience.
type PublicEvent struct {
	ID             uint64  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	CategoryID     *uint64 `json:"category_id,omitempty"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Location       string  `json:"location"`
	ImageURL       string  `json:"image_url"`
	AvailableSeats uint32  `json:"available_seats"`
	TotalSeats     uint32  `json:"total_seats"`
	PriceCents     uint32  `json:"price_cents"`
	Price          float64 `json:"price"`
	SoldOut        bool    `json:"sold_out"`
}

func toPublicEvent(ev model.Event) PublicEvent {
	return PublicEvent{
		ID:             ev.ID,
		Title:          ev.Title,
		Description:    ev.Description,
		CategoryID:     ev.CategoryID,
		Date:           ev.Date,
		Time:           ev.Time,
		Location:       ev.Location,
		ImageURL:       ev.ImageURL,
		AvailableSeats: ev.AvailableSeats,
		TotalSeats:     ev.TotalSeats,
		PriceCents:     ev.PriceCents,
		Price:          float64(ev.PriceCents) / 100.0,
		SoldOut:        ev.AvailableSeats == 0,
	}
}

// GetCategories handles GET /v1/categories. Categories come back ordered
// by name.
func (h *CatalogHandler) GetCategories(c echo.Context) error {
	cats, err := h.Categories.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicCategory, 0, len(cats))
	for _, cat := range cats {
		out = append(out, PublicCategory{ID: cat.ID, Name: cat.Name, Icon: cat.Icon, Description: cat.Description})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEvents handles GET /v1/events. Optional query parameters:
//
//	category     – category id
//	from         – minimum date (YYYY-MM-DD)
//	availability – all | available | soldout
//	q            – case-insensitive substring over title or location
//
// Matching nothing yields 200 with an empty items array.
func (h *CatalogHandler) GetEvents(c echo.Context) error {
	var f repository.EventFilter

	if raw := strings.TrimSpace(c.QueryParam("category")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
		}
		f.CategoryID = id
	}
	if raw := strings.TrimSpace(c.QueryParam("from")); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date, want YYYY-MM-DD"})
		}
		f.FromDate = raw
	}
	f.Availability = strings.TrimSpace(c.QueryParam("availability"))
	f.Query = strings.TrimSpace(c.QueryParam("q"))

	events, err := h.Events.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, toPublicEvent(ev))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out, "count": len(out)})
}

// GetUpcomingEvents handles GET /v1/events/upcoming for the home feed.
// Accepts an optional ?limit= parameter, default 6, capped at 50.
func (h *CatalogHandler) GetUpcomingEvents(c echo.Context) error {
	limit := 6
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		if n > 50 {
			n = 50
		}
		limit = n
	}
	events, err := h.Events.Upcoming(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, toPublicEvent(ev))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEvent handles GET /v1/events/:id, returning the event together with
// its category when one is set.
func (h *CatalogHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	det, err := h.Events.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	resp := echo.Map{"event": toPublicEvent(det.Event)}
	if det.Category != nil {
		resp["category"] = PublicCategory{
			ID:          det.Category.ID,
			Name:        det.Category.Name,
			Icon:        det.Category.Icon,
			Description: det.Category.Description,
		}
	}
	return c.JSON(http.StatusOK, resp)
}
