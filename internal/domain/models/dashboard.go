package models

import (
	"time"
)

// DashboardSectionType identifies what a dashboard section renders
type DashboardSectionType string

const (
	SectionStats      DashboardSectionType = "STATS"
	SectionPinned     DashboardSectionType = "PINNED_LINKS"
	SectionRecentLink DashboardSectionType = "RECENT_LINKS"
	SectionCollection DashboardSectionType = "COLLECTION"
)

// DashboardSection is one entry of a user's dashboard layout. Order values are
// dense per user; a section bound to a collection has CollectionID set.
type DashboardSection struct {
	ID           int64                `json:"id" db:"id"`
	UserID       int64                `json:"user_id" db:"user_id"`
	CollectionID *int64               `json:"collection_id" db:"collection_id"`
	Type         DashboardSectionType `json:"type" db:"type"`
	Order        int                  `json:"order" db:"sort_order"`
	CreatedAt    time.Time            `json:"created_at" db:"created_at"`
}
