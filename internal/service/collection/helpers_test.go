package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	store, err := repository.OpenSQLite(context.Background(), ":memory:", "test_", testLogger())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

// recordingAssets records folder removals
type recordingAssets struct {
	mu      sync.Mutex
	removed []string
}

func (a *recordingAssets) RemoveFolder(ctx context.Context, filePath string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removed = append(a.removed, filePath)
	return nil
}

func (a *recordingAssets) Removed() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.removed...)
}

// recordingSearch records deletions and fails any batch containing failOn
type recordingSearch struct {
	mu      sync.Mutex
	calls   [][]int64
	failOn  int64
	failErr error
}

var errSearchDown = errors.New("search index unavailable")

func (s *recordingSearch) DeleteDocuments(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if s.failOn != 0 && id == s.failOn {
			return s.failErr
		}
	}
	batch := make([]int64, len(ids))
	copy(batch, ids)
	s.calls = append(s.calls, batch)
	return nil
}

func (s *recordingSearch) IndexLinks(ctx context.Context, links []models.Link) error { return nil }
func (s *recordingSearch) Enabled() bool                                             { return true }

// Deleted flattens every successful batch
func (s *recordingSearch) Deleted() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, call := range s.calls {
		ids = append(ids, call...)
	}
	return ids
}

// stubPermissions returns a fixed permission and counts lookups
type stubPermissions struct {
	mu         sync.Mutex
	permission *models.CollectionPermission
	err        error
	calls      int
}

func (p *stubPermissions) GetPermission(ctx context.Context, userID, collectionID int64) (*models.CollectionPermission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.permission, p.err
}

type harness struct {
	store   *repository.Store
	assets  *recordingAssets
	search  *recordingSearch
	logs    *bytes.Buffer
	service services.CollectionDeletionService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newTestStore(t)
	h := &harness{
		store:  store,
		assets: &recordingAssets{},
		search: &recordingSearch{failErr: errSearchDown},
		logs:   &bytes.Buffer{},
	}
	h.service = h.build(h.search)
	return h
}

// build wires the service over the harness store with the given search index
func (h *harness) build(searchIndex services.SearchIndex) services.CollectionDeletionService {
	logger := slog.New(slog.NewJSONHandler(h.logs, nil))
	return SetupServices(h.store, h.assets, searchIndex, logger).Deletion
}

// logRecord is the subset of a JSON log line the tests look at
type logRecord struct {
	Level         string   `json:"level"`
	Msg           string   `json:"msg"`
	CollectionID  int64    `json:"collection_id"`
	AssetFolders  []string `json:"asset_folders"`
	SearchLinkIDs []int64  `json:"search_link_ids"`
}

// logged returns the records written with the given message
func (h *harness) logged(t *testing.T, msg string) []logRecord {
	t.Helper()
	var records []logRecord
	for _, line := range bytes.Split(bytes.TrimSpace(h.logs.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec logRecord
		require.NoError(t, json.Unmarshal(line, &rec))
		if rec.Msg == msg {
			records = append(records, rec)
		}
	}
	return records
}

func (h *harness) user(t *testing.T, name string) int64 {
	t.Helper()
	u := &models.User{Username: name}
	require.NoError(t, h.store.Users.Create(context.Background(), u))
	return u.ID
}

func (h *harness) collection(t *testing.T, ownerID int64, parentID *int64, name string) int64 {
	t.Helper()
	c := &models.Collection{Name: name, OwnerID: ownerID, ParentID: parentID}
	require.NoError(t, h.store.Collections.Create(context.Background(), c))
	return c.ID
}

func (h *harness) link(t *testing.T, collectionID int64, name string) int64 {
	t.Helper()
	version := 1
	l := &models.Link{Name: name, URL: "https://example.com/" + name, CollectionID: collectionID, IndexVersion: &version}
	require.NoError(t, h.store.Links.Create(context.Background(), l))
	return l.ID
}

func (h *harness) member(t *testing.T, userID, collectionID int64) {
	t.Helper()
	require.NoError(t, h.store.Memberships.Create(context.Background(), &models.Membership{
		UserID:       userID,
		CollectionID: collectionID,
		CanCreate:    true,
	}))
}

func (h *harness) section(t *testing.T, userID int64, collectionID *int64, typ models.DashboardSectionType, order int) int64 {
	t.Helper()
	s := &models.DashboardSection{UserID: userID, CollectionID: collectionID, Type: typ, Order: order}
	require.NoError(t, h.store.Dashboard.Create(context.Background(), s))
	return s.ID
}

func (h *harness) setOrder(t *testing.T, userID int64, order ...int64) {
	t.Helper()
	require.NoError(t, h.store.Users.SetCollectionOrder(context.Background(), userID, order))
}

func (h *harness) order(t *testing.T, userID int64) []int64 {
	t.Helper()
	order, err := h.store.Users.GetCollectionOrder(context.Background(), userID)
	require.NoError(t, err)
	return order
}

func (h *harness) sectionOrders(t *testing.T, userID int64) []int {
	t.Helper()
	sections, err := h.store.Dashboard.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	orders := make([]int, len(sections))
	for i, s := range sections {
		orders[i] = s.Order
	}
	return orders
}

func (h *harness) exists(t *testing.T, collectionID int64) bool {
	t.Helper()
	_, err := h.store.Collections.GetByID(context.Background(), collectionID)
	if errors.Is(err, domain.ErrNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

func (h *harness) linkIDs(t *testing.T, collectionID int64) []int64 {
	t.Helper()
	ids, err := h.store.Links.ListIDsByCollection(context.Background(), collectionID)
	require.NoError(t, err)
	return ids
}

func (h *harness) members(t *testing.T, collectionID int64) []models.Membership {
	t.Helper()
	members, err := h.store.Memberships.ListByCollection(context.Background(), collectionID)
	require.NoError(t, err)
	return members
}

func ptr(id int64) *int64 { return &id }
