package models

import "net/http"

// DeletionKind tells which path a remove-or-delete request took
type DeletionKind string

const (
	DeletionLeft    DeletionKind = "left"
	DeletionDeleted DeletionKind = "deleted"
)

// DeletionResult is the outcome of a successful remove-or-delete request.
// Exactly one of Membership (leave) or Collection (delete) is set.
type DeletionResult struct {
	Kind       DeletionKind `json:"kind"`
	Membership *Membership  `json:"membership,omitempty"`
	Collection *Collection  `json:"collection,omitempty"`
}

// Response returns the record handed back to the caller
func (r *DeletionResult) Response() interface{} {
	if r.Kind == DeletionLeft {
		return r.Membership
	}
	return r.Collection
}

// Status is the transport status of a successful result
func (r *DeletionResult) Status() int {
	return http.StatusOK
}
