package models

import (
	"time"
)

// Link is a bookmarked item. Every link belongs to exactly one collection.
type Link struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	URL          string    `json:"url" db:"url"`
	CollectionID int64     `json:"collection_id" db:"collection_id"`
	IndexVersion *int      `json:"index_version" db:"index_version"` // NULL = needs (re)indexing
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
