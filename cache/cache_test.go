package cache

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	wasmload "github.com/scribeware/wasmload"
)

// countingFetcher serves canned payloads and counts fetches per URL.
type countingFetcher struct {
	mu      sync.Mutex
	data    map[string][]byte
	fetches map[string]int
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		data:    make(map[string][]byte),
		fetches: make(map[string]int),
	}
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[url]++
	data, ok := f.data[url]
	if !ok {
		return nil, fmt.Errorf("no such artifact %s", url)
	}
	return data, nil
}

func (f *countingFetcher) FetchStream(ctx context.Context, url string, onProgress wasmload.ProgressFunc) ([]byte, error) {
	data, err := f.Fetch(ctx, url)
	if err == nil && onProgress != nil {
		onProgress(uint64(len(data)), uint64(len(data)))
	}
	return data, err
}

func (f *countingFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[url]
}

func TestStore_PutGet(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	payload := []byte("\x00asm\x01\x00\x00\x00")
	if err := s.Put("https://cdn.example.com/core.wasm", payload); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := s.Get("https://cdn.example.com/core.wasm")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q", got)
	}

	if _, ok, _ := s.Get("https://cdn.example.com/other.wasm"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestStore_PutReplaces(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Put("u", []byte("v1"))
	s.Put("u", []byte("v2"))

	got, ok, err := s.Get("u")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if string(got) != "v2" {
		t.Fatalf("got %q, want replacement", got)
	}
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	s.Put("u", []byte("persisted"))
	s.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Get("u")
	if err != nil || !ok || string(got) != "persisted" {
		t.Fatalf("Get after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestFetcher_HitSkipsNetwork(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	inner := newCountingFetcher()
	inner.data["u"] = []byte("bytes")
	f := NewFetcher(s, inner)

	ctx := context.Background()
	if _, err := f.Fetch(ctx, "u"); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	if _, err := f.Fetch(ctx, "u"); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if inner.count("u") != 1 {
		t.Fatalf("inner fetches = %d, want 1 (second should hit cache)", inner.count("u"))
	}
}

func TestFetcher_StreamReportsCachedProgress(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	inner := newCountingFetcher()
	inner.data["u"] = []byte("12345")
	f := NewFetcher(s, inner)

	ctx := context.Background()
	if _, err := f.Fetch(ctx, "u"); err != nil {
		t.Fatal(err)
	}

	var final uint64
	data, err := f.FetchStream(ctx, "u", func(received, total uint64) { final = received })
	if err != nil {
		t.Fatalf("FetchStream: %v", err)
	}
	if string(data) != "12345" || final != 5 {
		t.Fatalf("data=%q final=%d", data, final)
	}
}

func TestPrimer_WarmsStore(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	inner := newCountingFetcher()
	inner.data["a"] = []byte("aa")
	inner.data["b"] = []byte("bb")

	p := NewPrimer(s, inner)
	defer p.Close()

	if err := p.Prime(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("Prime failed: %v", err)
	}

	for _, url := range []string{"a", "b"} {
		ok, err := s.Has(url)
		if err != nil || !ok {
			t.Fatalf("Has(%s) = %v, %v", url, ok, err)
		}
	}

	// A second prime is a no-op: everything already cached.
	if err := p.Prime(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("second Prime failed: %v", err)
	}
	if inner.count("a") != 1 {
		t.Fatalf("fetches = %d, want 1", inner.count("a"))
	}
}

func TestPrimer_FailureReported(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p := NewPrimer(s, newCountingFetcher())
	defer p.Close()

	if err := p.Prime(context.Background(), []string{"ghost"}); err == nil {
		t.Fatal("expected prime error for unknown artifact")
	}
}

func TestPrimer_ClosedRejects(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p := NewPrimer(s, newCountingFetcher())
	p.Close()

	if err := p.Prime(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error after Close")
	}
}
