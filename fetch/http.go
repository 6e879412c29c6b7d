package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	wasmload "github.com/scribeware/wasmload"
	"github.com/scribeware/wasmload/errors"
)

// chunkSize is the read granularity of the streaming path.
const chunkSize = 32 * 1024

// HTTP fetches artifacts with an http.Client, falling back to the local
// filesystem for non-HTTP references.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates a fetcher. A nil client uses http.DefaultClient; the
// per-attempt deadline comes from the caller's context, not the client.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{client: client}
}

var _ wasmload.Fetcher = (*HTTP)(nil)

// Fetch retrieves the artifact, buffering it fully.
func (h *HTTP) Fetch(ctx context.Context, url string) ([]byte, error) {
	if path, ok := localPath(url); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Fetch("", url, err)
		}
		return data, nil
	}

	body, _, err := h.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Fetch("", url, err)
	}
	return data, nil
}

// FetchStream retrieves the artifact in chunks, reporting progress as
// bytes arrive. Total is 0 when the server announces no Content-Length.
func (h *HTTP) FetchStream(ctx context.Context, url string, onProgress wasmload.ProgressFunc) ([]byte, error) {
	if path, ok := localPath(url); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Fetch("", url, err)
		}
		if onProgress != nil {
			onProgress(uint64(len(data)), uint64(len(data)))
		}
		return data, nil
	}

	body, total, err := h.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var buf []byte
	if total > 0 {
		buf = make([]byte, 0, total)
	}

	chunk := make([]byte, chunkSize)
	var received uint64
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			received += uint64(n)
			if onProgress != nil {
				onProgress(received, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Fetch("", url, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Fetch("", url, err)
		}
	}
	return buf, nil
}

func (h *HTTP) open(ctx context.Context, url string) (io.ReadCloser, uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, errors.Fetch("", url, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, errors.Fetch("", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, 0, errors.Fetch("", url, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var total uint64
	if resp.ContentLength > 0 {
		total = uint64(resp.ContentLength)
	}
	return resp.Body, total, nil
}

// localPath maps plain paths and file:// URLs to the filesystem.
func localPath(url string) (string, bool) {
	if strings.HasPrefix(url, "file://") {
		return strings.TrimPrefix(url, "file://"), true
	}
	if strings.Contains(url, "://") {
		return "", false
	}
	return url, true
}
