package repository

import (
	"context"
	"database/sql"

	"eventbook/internal/model"
)

// CategoryRepo provides read access to the categories table. Categories
// are owned by the catalog seeder and never written by this service.
type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// ListAll returns every category ordered by name ascending.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	const q = `SELECT id, name, icon, description, created_at
	           FROM categories ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Category, 0, 16)
	for rows.Next() {
		var (
			cat  model.Category
			desc sql.NullString
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &desc, &cat.CreatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			cat.Description = &d
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// GetByID fetches one category or ErrCategoryNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	const q = `SELECT id, name, icon, description, created_at
	           FROM categories WHERE id = ? LIMIT 1`
	var (
		cat  model.Category
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&cat.ID, &cat.Name, &cat.Icon, &desc, &cat.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	if desc.Valid {
		d := desc.String
		cat.Description = &d
	}
	return cat, nil
}
