package cache

import (
	"context"

	"go.uber.org/zap"

	wasmload "github.com/scribeware/wasmload"
	"github.com/scribeware/wasmload/engine"
)

// Fetcher wraps an inner fetcher with a store-first lookup. Hits skip the
// network entirely; misses are fetched and written back best-effort.
type Fetcher struct {
	store *Store
	inner wasmload.Fetcher
}

// NewFetcher wraps inner with cache lookups against store.
func NewFetcher(store *Store, inner wasmload.Fetcher) *Fetcher {
	return &Fetcher{store: store, inner: inner}
}

var _ wasmload.Fetcher = (*Fetcher)(nil)

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := f.lookup(url); ok {
		return data, nil
	}

	data, err := f.inner.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	f.writeBack(url, data)
	return data, nil
}

func (f *Fetcher) FetchStream(ctx context.Context, url string, onProgress wasmload.ProgressFunc) ([]byte, error) {
	if data, ok := f.lookup(url); ok {
		if onProgress != nil {
			onProgress(uint64(len(data)), uint64(len(data)))
		}
		return data, nil
	}

	data, err := f.inner.FetchStream(ctx, url, onProgress)
	if err != nil {
		return nil, err
	}
	f.writeBack(url, data)
	return data, nil
}

func (f *Fetcher) lookup(url string) ([]byte, bool) {
	data, ok, err := f.store.Get(url)
	if err != nil {
		engine.Logger().Warn("cache lookup failed", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (f *Fetcher) writeBack(url string, data []byte) {
	if err := f.store.Put(url, data); err != nil {
		engine.Logger().Warn("cache write-back failed", zap.String("url", url), zap.Error(err))
	}
}
