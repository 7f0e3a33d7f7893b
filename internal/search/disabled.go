package search

import (
	"context"

	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/services"
)

// Disabled stands in when no search index is configured. Every call is a no-op.
type Disabled struct{}

func (Disabled) DeleteDocuments(context.Context, []int64) error  { return nil }
func (Disabled) IndexLinks(context.Context, []models.Link) error { return nil }
func (Disabled) Enabled() bool                                   { return false }

var _ services.SearchIndex = Disabled{}
