package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetch_HTTP(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 1000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	data, err := NewHTTP(nil).Fetch(context.Background(), srv.URL+"/mod.wasm")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("got %d bytes, want %d", len(data), len(payload))
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewHTTP(nil).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFetchStream_Progress(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 100*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "102400")
		w.Write(payload)
	}))
	defer srv.Close()

	var calls int
	var lastReceived, lastTotal uint64
	data, err := NewHTTP(nil).FetchStream(context.Background(), srv.URL, func(received, total uint64) {
		calls++
		if received < lastReceived {
			t.Fatal("received went backward")
		}
		lastReceived, lastTotal = received, total
	})
	if err != nil {
		t.Fatalf("FetchStream failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("got %d bytes", len(data))
	}
	if calls == 0 {
		t.Fatal("no progress reported")
	}
	if lastReceived != uint64(len(payload)) {
		t.Fatalf("final received = %d", lastReceived)
	}
	if lastTotal != uint64(len(payload)) {
		t.Fatalf("total = %d", lastTotal)
	}
}

func TestFetchStream_NoContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f := w.(http.Flusher)
		w.Write([]byte("part1"))
		f.Flush()
		w.Write([]byte("part2"))
	}))
	defer srv.Close()

	var sawZeroTotal bool
	data, err := NewHTTP(nil).FetchStream(context.Background(), srv.URL, func(received, total uint64) {
		if total == 0 {
			sawZeroTotal = true
		}
	})
	if err != nil {
		t.Fatalf("FetchStream failed: %v", err)
	}
	if string(data) != "part1part2" {
		t.Fatalf("data = %q", data)
	}
	if !sawZeroTotal {
		t.Fatal("expected total 0 without Content-Length")
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHTTP(nil).Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.wasm")
	if err := os.WriteFile(path, []byte("\x00asm"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHTTP(nil)
	for _, url := range []string{path, "file://" + path} {
		data, err := h.Fetch(context.Background(), url)
		if err != nil {
			t.Fatalf("Fetch(%s) failed: %v", url, err)
		}
		if string(data) != "\x00asm" {
			t.Fatalf("data = %q", data)
		}
	}

	var final uint64
	if _, err := h.FetchStream(context.Background(), path, func(r, tot uint64) { final = r }); err != nil {
		t.Fatalf("FetchStream local failed: %v", err)
	}
	if final != 4 {
		t.Fatalf("final progress = %d", final)
	}
}

func TestFetch_LocalMissing(t *testing.T) {
	if _, err := NewHTTP(nil).Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.wasm")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
