package models

import (
	"time"
)

// User carries the per-user sidebar ordering of collection ids
type User struct {
	ID              int64     `json:"id" db:"id"`
	Username        string    `json:"username" db:"username"`
	CollectionOrder []int64   `json:"collection_order" db:"collection_order"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// WithoutCollection returns order with every occurrence of collectionID removed.
// The relative order of the remaining ids is preserved.
func WithoutCollection(order []int64, collectionID int64) []int64 {
	filtered := make([]int64, 0, len(order))
	for _, id := range order {
		if id != collectionID {
			filtered = append(filtered, id)
		}
	}
	return filtered
}
