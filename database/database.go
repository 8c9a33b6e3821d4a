package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"pdiff/logging"
	"pdiff/types"

	_ "github.com/mattn/go-sqlite3"
)

// FingerprintStore persists fingerprints between runs.
// Entries are keyed by path, algorithm and hash size and are only
// returned while the file's size and modification time are unchanged.
type FingerprintStore struct {
	db *sql.DB
	mu sync.Mutex
}

// StoredFingerprint is one cached row
type StoredFingerprint struct {
	Info types.ImageInfo
	Bits int
	Hash string
}

// InitDatabase opens (creating if needed) the store at dbPath
func InitDatabase(dbPath string) (*FingerprintStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS fingerprints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		hash_size INTEGER NOT NULL,
		size INTEGER,
		modified_at TEXT,
		width INTEGER,
		height INTEGER,
		bits INTEGER NOT NULL,
		hash TEXT NOT NULL,
		created_at TEXT,
		UNIQUE(path, algorithm, hash_size)
	);
	CREATE INDEX IF NOT EXISTS idx_fingerprints_path ON fingerprints(path);
	CREATE INDEX IF NOT EXISTS idx_fingerprints_hash ON fingerprints(hash);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create schema: %w", err)
	}

	logging.DebugLog("Fingerprint store ready: %s", dbPath)
	return &FingerprintStore{db: db}, nil
}

// Close closes the underlying database
func (s *FingerprintStore) Close() error {
	return s.db.Close()
}

// Lookup returns the stored fingerprint for info.Path when info's size and
// modification time still match the stored row
func (s *FingerprintStore) Lookup(info types.ImageInfo, algorithm string, hashSize int) (*StoredFingerprint, bool, error) {
	var (
		size       int64
		modifiedAt string
		stored     StoredFingerprint
	)

	err := s.db.QueryRow(`
		SELECT size, modified_at, width, height, bits, hash FROM fingerprints
		WHERE path = ? AND algorithm = ? AND hash_size = ?`,
		info.Path, algorithm, hashSize,
	).Scan(&size, &modifiedAt, &stored.Info.Width, &stored.Info.Height, &stored.Bits, &stored.Hash)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("database error for %s: %w", info.Path, err)
	}

	storedTime, err := time.Parse(time.RFC3339Nano, modifiedAt)
	if err != nil {
		return nil, false, fmt.Errorf("cannot parse stored time for %s: %w", info.Path, err)
	}

	if size != info.Size || !storedTime.Equal(info.ModifiedAt) {
		logging.DebugLog("Stored fingerprint is stale: %s", info.Path)
		return nil, false, nil
	}

	width, height := stored.Info.Width, stored.Info.Height
	stored.Info = info
	stored.Info.Width = width
	stored.Info.Height = height
	stored.Info.Fingerprint = stored.Hash
	return &stored, true, nil
}

// Store upserts the fingerprint for info
func (s *FingerprintStore) Store(info types.ImageInfo, algorithm string, hashSize int, bits int, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmt, err := s.db.Prepare(`
		INSERT OR REPLACE INTO fingerprints (
			path, algorithm, hash_size, size, modified_at, width, height, bits, hash, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %w", info.Path, err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		info.Path,
		algorithm,
		hashSize,
		info.Size,
		info.ModifiedAt.Format(time.RFC3339Nano),
		info.Width,
		info.Height,
		bits,
		hash,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cannot insert data for %s: %w", info.Path, err)
	}

	return nil
}

// StoreStats contains statistics about the store
type StoreStats struct {
	TotalFingerprints  int
	UniqueFingerprints int
}

// GetStoreStats counts stored fingerprints for one algorithm and hash size
func GetStoreStats(s *FingerprintStore, algorithm string, hashSize int) (*StoreStats, error) {
	var stats StoreStats

	err := s.db.QueryRow(
		"SELECT COUNT(*), COUNT(DISTINCT hash) FROM fingerprints WHERE algorithm = ? AND hash_size = ?",
		algorithm, hashSize,
	).Scan(&stats.TotalFingerprints, &stats.UniqueFingerprints)
	if err != nil {
		return nil, fmt.Errorf("failed to get store stats: %w", err)
	}

	return &stats, nil
}
