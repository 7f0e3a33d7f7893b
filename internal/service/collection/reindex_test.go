package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/search"
)

func TestReindexer_ReindexesLinksStaleAfterLeave(t *testing.T) {
	h := newHarness(t)
	owner := h.user(t, "owner")
	member := h.user(t, "member")
	a := h.collection(t, owner, nil, "A")
	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, h.link(t, a, "l"))
	}
	h.member(t, member, a)

	_, err := h.service.RemoveOrDeleteCollection(context.Background(),
		&services.RemoveOrDeleteRequest{UserID: member, CollectionID: a})
	require.NoError(t, err)

	idx, err := search.NewMemOnly(testLogger())
	require.NoError(t, err)
	defer idx.Close()

	reindexer := NewReindexer(h.store.Links, idx, 2, 3, testLogger())
	n, err := reindexer.ReindexStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	found, err := idx.Contains(ids...)
	require.NoError(t, err)
	for _, id := range ids {
		assert.True(t, found[id], "link %d indexed", id)
	}

	stale, err := h.store.Links.ListStale(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestReindexer_SearchDisabled(t *testing.T) {
	h := newHarness(t)
	reindexer := NewReindexer(h.store.Links, search.Disabled{}, 10, 1, testLogger())

	n, err := reindexer.ReindexStale(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
