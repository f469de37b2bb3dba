package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogTables(t *testing.T, db *sql.DB) {
	setupBookingTables(t, db)
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		icon VARCHAR(64) NOT NULL DEFAULT '',
		description TEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec("TRUNCATE TABLE categories")
	})
}

func seedCategory(t *testing.T, db *sql.DB, name, icon string) uint64 {
	res, err := db.Exec(
		"INSERT INTO categories (name, icon) VALUES (?, ?)", name, icon)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

func seedCatalogEvent(t *testing.T, db *sql.DB, title, location, date string, catID uint64, available uint32) uint64 {
	var cat any
	if catID != 0 {
		cat = catID
	}
	res, err := db.Exec(
		`INSERT INTO events (title, description, category_id, date, time, location, available_seats, total_seats, price_cents)
		 VALUES (?, '', ?, ?, '19:00', ?, ?, 100, 2500)`,
		title, cat, date, location, available)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

func TestEventRepo_List_Filters(t *testing.T) {
	db := getTestDB(t)
	setupCatalogTables(t, db)
	repo := NewEventRepo(db)
	ctx := context.Background()

	music := seedCategory(t, db, "Music", "music")
	theatre := seedCategory(t, db, "Theatre", "mask")

	seedCatalogEvent(t, db, "Jazz Night", "Blue Hall", "2030-03-01", music, 10)
	seedCatalogEvent(t, db, "Rock Concert", "Arena", "2030-04-01", music, 0)
	seedCatalogEvent(t, db, "Hamlet", "City Theatre", "2030-02-01", theatre, 5)

	t.Run("no filter returns all by date", func(t *testing.T) {
		events, err := repo.List(ctx, EventFilter{})
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "Hamlet", events[0].Title)
		assert.Equal(t, "Jazz Night", events[1].Title)
	})

	t.Run("category", func(t *testing.T) {
		events, err := repo.List(ctx, EventFilter{CategoryID: music})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("from date", func(t *testing.T) {
		events, err := repo.List(ctx, EventFilter{FromDate: "2030-03-15"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Rock Concert", events[0].Title)
	})

	t.Run("soldout", func(t *testing.T) {
		events, err := repo.List(ctx, EventFilter{Availability: "soldout"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Rock Concert", events[0].Title)
	})

	t.Run("free text matches title or location case-insensitively", func(t *testing.T) {
		byTitle, err := repo.List(ctx, EventFilter{Query: "jazz"})
		require.NoError(t, err)
		require.Len(t, byTitle, 1)

		byLocation, err := repo.List(ctx, EventFilter{Query: "ARENA"})
		require.NoError(t, err)
		require.Len(t, byLocation, 1)
		assert.Equal(t, "Rock Concert", byLocation[0].Title)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		events, err := repo.List(ctx, EventFilter{Query: "nosuchthing"})
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestEventRepo_Upcoming_LimitAndCutoff(t *testing.T) {
	db := getTestDB(t)
	setupCatalogTables(t, db)
	repo := NewEventRepo(db)
	ctx := context.Background()

	seedCatalogEvent(t, db, "Past Show", "Old Hall", "2000-01-01", 0, 10)
	seedCatalogEvent(t, db, "Soon", "Hall A", "2030-01-01", 0, 10)
	seedCatalogEvent(t, db, "Later", "Hall B", "2031-01-01", 0, 10)

	events, err := repo.Upcoming(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Soon", events[0].Title)
}

func TestEventRepo_GetDetail(t *testing.T) {
	db := getTestDB(t)
	setupCatalogTables(t, db)
	repo := NewEventRepo(db)
	ctx := context.Background()

	music := seedCategory(t, db, "Music", "music")
	withCat := seedCatalogEvent(t, db, "Jazz Night", "Blue Hall", "2030-03-01", music, 10)
	noCat := seedCatalogEvent(t, db, "Flea Market", "Town Square", "2030-03-02", 0, 10)

	det, err := repo.GetDetail(ctx, withCat)
	require.NoError(t, err)
	require.NotNil(t, det.Category)
	assert.Equal(t, "Music", det.Category.Name)
	require.NotNil(t, det.Event.CategoryID)
	assert.Equal(t, music, *det.Event.CategoryID)

	det, err = repo.GetDetail(ctx, noCat)
	require.NoError(t, err)
	assert.Nil(t, det.Category)
	assert.Nil(t, det.Event.CategoryID)

	_, err = repo.GetDetail(ctx, 999999)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestCategoryRepo_ListAll(t *testing.T) {
	db := getTestDB(t)
	setupCatalogTables(t, db)
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	seedCategory(t, db, "Theatre", "mask")
	seedCategory(t, db, "Music", "music")

	cats, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Music", cats[0].Name, "ordered by name")
	assert.Equal(t, "Theatre", cats[1].Name)

	_, err = repo.GetByID(ctx, 999999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
