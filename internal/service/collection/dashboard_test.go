package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarkd/internal/domain/models"
)

func TestDashboardService_RemoveSectionKeepsOrderDense(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for pos := 0; pos < n; pos++ {
			h := newHarness(t)
			user := h.user(t, "u")
			other := h.user(t, "other")

			var target int64
			for i := 0; i < n; i++ {
				if i == pos {
					target = h.collection(t, user, nil, "bound")
					h.section(t, user, ptr(target), models.SectionCollection, i)
					continue
				}
				h.section(t, user, nil, models.SectionPinned, i)
			}
			h.section(t, other, nil, models.SectionStats, 0)
			h.section(t, other, nil, models.SectionRecentLink, 5)

			svc := NewDashboardService(h.store.Dashboard, h.store.Tx, testLogger())
			require.NoError(t, svc.RemoveSection(context.Background(), user, target))

			want := make([]int, n-1)
			for i := range want {
				want[i] = i
			}
			assert.Equal(t, want, h.sectionOrders(t, user), "n=%d pos=%d", n, pos)
			assert.Equal(t, []int{0, 5}, h.sectionOrders(t, other), "other users are untouched")
		}
	}
}

func TestDashboardService_NoSectionIsNoop(t *testing.T) {
	h := newHarness(t)
	user := h.user(t, "u")
	a := h.collection(t, user, nil, "A")
	h.section(t, user, nil, models.SectionStats, 0)
	h.section(t, user, nil, models.SectionPinned, 1)

	svc := NewDashboardService(h.store.Dashboard, h.store.Tx, testLogger())
	require.NoError(t, svc.RemoveSection(context.Background(), user, a))

	assert.Equal(t, []int{0, 1}, h.sectionOrders(t, user))
}
