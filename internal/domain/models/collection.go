package models

import (
	"time"
)

// Collection is a node in a user's collection tree. ParentID is nil for root collections.
type Collection struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	ParentID    *int64    `json:"parent_id" db:"parent_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Membership grants a user access to a collection they do not own.
// Exactly one row exists per (UserID, CollectionID).
type Membership struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	CollectionID int64     `json:"collection_id" db:"collection_id"`
	CanCreate    bool      `json:"can_create" db:"can_create"`
	CanUpdate    bool      `json:"can_update" db:"can_update"`
	CanDelete    bool      `json:"can_delete" db:"can_delete"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CollectionPermission is what the permission lookup knows about a caller's
// relationship to a collection: who owns it and who it is shared with.
type CollectionPermission struct {
	CollectionID int64        `json:"collection_id"`
	OwnerID      int64        `json:"owner_id"`
	Members      []Membership `json:"members"`
}

// HasMember reports whether userID holds a membership on the collection
func (p *CollectionPermission) HasMember(userID int64) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// AccessKind is the caller's relationship to a collection
type AccessKind int

const (
	AccessNone AccessKind = iota
	AccessMember
	AccessOwner
)

func (k AccessKind) String() string {
	switch k {
	case AccessMember:
		return "member"
	case AccessOwner:
		return "owner"
	default:
		return "none"
	}
}

// DecideAccess classifies the caller against a permission lookup result.
// A nil permission means the caller has no relationship at all.
// Membership only counts when the caller is not also the owner.
func DecideAccess(p *CollectionPermission, userID int64) AccessKind {
	switch {
	case p == nil:
		return AccessNone
	case p.OwnerID != userID && p.HasMember(userID):
		return AccessMember
	case p.OwnerID != userID:
		return AccessNone
	default:
		return AccessOwner
	}
}
