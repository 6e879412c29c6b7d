package cache

import (
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/scribeware/wasmload/errors"
)

//go:embed schema.sql
var schemaSQL string

// Store is an on-disk artifact cache: blob files content-addressed by
// SHA-256, indexed by URL in SQLite.
type Store struct {
	mu  sync.Mutex
	dir string
	db  *sql.DB
}

// Open creates or opens a store rooted at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindInvalidInput, Detail: "create cache dir", Cause: err}
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "artifacts.db"))
	if err != nil {
		return nil, &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindInvalidInput, Detail: "open cache index", Cause: err}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindInvalidInput, Detail: "init cache schema", Cause: err}
	}

	return &Store{dir: dir, db: db}, nil
}

// Put stores artifact bytes under a URL, replacing any previous entry.
func (s *Store) Put(url string, data []byte) error {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	blob := digest + ".bin"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, blob), data, 0o644); err != nil {
		return &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindInvalidInput, Detail: "write blob", Cause: err}
	}

	_, err := s.db.Exec(
		`INSERT INTO artifacts (url, blob, size, sha256, stored_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		   blob = excluded.blob,
		   size = excluded.size,
		   sha256 = excluded.sha256,
		   stored_at = excluded.stored_at`,
		url, blob, len(data), digest, time.Now().Unix(),
	)
	if err != nil {
		return &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindInvalidInput, Detail: "index blob", Cause: err}
	}
	return nil
}

// Get returns the cached bytes for a URL. The second return is false on a
// miss; a present index row whose blob has gone missing also counts as a
// miss.
func (s *Store) Get(url string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blob, digest string
	err := s.db.QueryRow(`SELECT blob, sha256 FROM artifacts WHERE url = ?`, url).Scan(&blob, &digest)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindInvalidInput, Detail: "query index", Cause: err}
	}

	data, err := os.ReadFile(filepath.Join(s.dir, blob))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &errors.Error{Phase: errors.PhaseCache, Kind: errors.KindInvalidInput, Detail: "read blob", Cause: err}
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != digest {
		// Corrupt blob; treat as a miss so the fetch path repairs it.
		return nil, false, nil
	}
	return data, true, nil
}

// Has reports whether a URL is cached.
func (s *Store) Has(url string) (bool, error) {
	_, ok, err := s.Get(url)
	return ok, err
}

// Close releases the index database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
