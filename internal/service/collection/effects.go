package collection

import (
	"context"
	"sync"

	"bookmarkd/internal/domain/services"
	"bookmarkd/internal/storage"
)

// sideEffects journals removals issued while a delete transaction is open.
// None of them are undone when the transaction rolls back.
type sideEffects struct {
	mu      sync.Mutex
	folders []string
	linkIDs []int64
}

type sideEffectsKey struct{}

func withSideEffects(ctx context.Context) (context.Context, *sideEffects) {
	effects := &sideEffects{}
	return context.WithValue(ctx, sideEffectsKey{}, effects), effects
}

func journal(ctx context.Context) *sideEffects {
	effects, _ := ctx.Value(sideEffectsKey{}).(*sideEffects)
	return effects
}

func (e *sideEffects) addFolder(path string) {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.folders = append(e.folders, path)
}

func (e *sideEffects) addLinks(ids []int64) {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.linkIDs = append(e.linkIDs, ids...)
}

func (e *sideEffects) snapshot() (folders []string, linkIDs []int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.folders...), append([]int64(nil), e.linkIDs...)
}

// removeAssetFolders drops the archive and preview folders of a collection.
// A folder is journaled before the call since a failure may be partial.
func removeAssetFolders(ctx context.Context, assets services.AssetStore, collectionID int64) error {
	for _, path := range []string{storage.ArchivePath(collectionID), storage.PreviewPath(collectionID)} {
		journal(ctx).addFolder(path)
		if err := assets.RemoveFolder(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// removeFromIndex deletes link documents when a search index is configured
func removeFromIndex(ctx context.Context, idx services.SearchIndex, linkIDs []int64) error {
	if !searchEnabled(idx) {
		return nil
	}
	journal(ctx).addLinks(linkIDs)
	return idx.DeleteDocuments(ctx, linkIDs)
}

func searchEnabled(idx services.SearchIndex) bool {
	return idx != nil && idx.Enabled()
}
