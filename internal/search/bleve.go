// Package search keeps the full-text index over links.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/services"
)

// IndexName is the name the link index is known by
const IndexName = "links"

// LinkIndex implements services.SearchIndex on a bleve index
type LinkIndex struct {
	index  bleve.Index
	logger *slog.Logger
}

func newMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", bleve.NewTextFieldMapping())
	doc.AddFieldMappingsAt("url", bleve.NewTextFieldMapping())

	collection := bleve.NewNumericFieldMapping()
	collection.Store = true
	doc.AddFieldMappingsAt("collection_id", collection)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Open opens the index at path, creating it if it does not exist yet
func Open(path string, logger *slog.Logger) (*LinkIndex, error) {
	index, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		index, err = bleve.New(path, newMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open search index %s: %w", path, err)
	}

	return &LinkIndex{index: index, logger: logger}, nil
}

// NewMemOnly creates an index that lives only in memory
func NewMemOnly(logger *slog.Logger) (*LinkIndex, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory search index: %w", err)
	}

	return &LinkIndex{index: index, logger: logger}, nil
}

func (s *LinkIndex) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.Close()
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// DeleteDocuments removes the given link ids in one batch
func (s *LinkIndex) DeleteDocuments(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(docID(id))
	}

	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("delete %d documents from %s: %w", len(ids), IndexName, err)
	}

	s.logger.Debug("search documents deleted", "index", IndexName, "count", len(ids))
	return nil
}

// IndexLinks adds or replaces the given links in one batch
func (s *LinkIndex) IndexLinks(ctx context.Context, links []models.Link) error {
	if len(links) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := s.index.NewBatch()
	for _, link := range links {
		data := map[string]interface{}{
			"name":          link.Name,
			"url":           link.URL,
			"collection_id": float64(link.CollectionID),
		}
		if err := batch.Index(docID(link.ID), data); err != nil {
			return fmt.Errorf("index link %d: %w", link.ID, err)
		}
	}

	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("index %d links into %s: %w", len(links), IndexName, err)
	}

	return nil
}

// Contains reports which of the given link ids are present in the index
func (s *LinkIndex) Contains(ids ...int64) (map[int64]bool, error) {
	docIDs := make([]string, len(ids))
	for i, id := range ids {
		docIDs[i] = docID(id)
	}

	req := bleve.NewSearchRequest(bleve.NewDocIDQuery(docIDs))
	req.Size = len(ids)

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", IndexName, err)
	}

	found := make(map[int64]bool, len(ids))
	for _, id := range ids {
		found[id] = false
	}
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse document id %q: %w", hit.ID, err)
		}
		found[id] = true
	}

	return found, nil
}

// Count returns the number of indexed documents
func (s *LinkIndex) Count() (uint64, error) {
	return s.index.DocCount()
}

func (s *LinkIndex) Enabled() bool { return true }

var _ services.SearchIndex = (*LinkIndex)(nil)
