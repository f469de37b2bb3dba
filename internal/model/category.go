package model

import "time"

// Category groups events for browsing and filtering. Categories are
// seeded by the catalog owner and never mutated by this application.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique display name (e.g. "Music", "Adventure").
//  Icon        – icon key rendered by clients.
//  Description – optional longer description.
//  CreatedAt   – creation timestamp.
type Category struct {
	ID          uint64    // categories.id
	Name        string    // categories.name
	Icon        string    // categories.icon
	Description *string   // categories.description (nullable)
	CreatedAt   time.Time // categories.created_at
}
