package datastore

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"pagewatch/internal/common"
	"pagewatch/internal/models"
)

// SQLiteStore persists snapshots so a restart does not re-seed baselines.
// The core's correctness never depends on this durability; it only avoids
// redundant first-change notifications across restarts.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) the snapshot database at
// dataSourceName and ensures the schema exists.
func NewSQLiteStore(dataSourceName string, logger zerolog.Logger) (*SQLiteStore, error) {
	storeLogger := logger.With().Str("component", "SQLiteStore").Logger()
	storeLogger.Info().Str("db_path", dataSourceName).Msg("Opening snapshot database")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, common.WrapErrorf(err, "creating snapshot database directory %s", dbDir)
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, common.WrapErrorf(err, "opening snapshot database %s", dataSourceName)
	}

	store := &SQLiteStore{db: db, logger: storeLogger}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "initializing snapshot schema")
	}

	return store, nil
}

// initSchema creates the snapshots table if it doesn't already exist.
func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		target_name TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		hash TEXT NOT NULL,
		content TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}
	s.logger.Debug().Msg("Snapshot schema ensured")
	return nil
}

// Get returns the stored snapshot for targetName, or ErrSnapshotNotFound.
func (s *SQLiteStore) Get(targetName string) (*models.Snapshot, error) {
	query := `SELECT target_name, url, hash, content, fetched_at FROM snapshots WHERE target_name = ?`

	var snapshot models.Snapshot
	var fetchedAt string
	err := s.db.QueryRow(query, targetName).Scan(
		&snapshot.TargetName,
		&snapshot.URL,
		&snapshot.Hash,
		&snapshot.Content,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, common.WrapErrorf(err, "querying snapshot for '%s'", targetName)
	}

	if parsed, parseErr := time.Parse(time.RFC3339Nano, fetchedAt); parseErr == nil {
		snapshot.FetchedAt = parsed
	}

	return &snapshot, nil
}

// Put stores snapshot, replacing any previous row for the same target.
func (s *SQLiteStore) Put(snapshot models.Snapshot) error {
	query := `
	INSERT INTO snapshots (target_name, url, hash, content, fetched_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(target_name) DO UPDATE SET
		url = excluded.url,
		hash = excluded.hash,
		content = excluded.content,
		fetched_at = excluded.fetched_at
	`
	_, err := s.db.Exec(query,
		snapshot.TargetName,
		snapshot.URL,
		snapshot.Hash,
		snapshot.Content,
		snapshot.FetchedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return common.WrapErrorf(err, "storing snapshot for '%s'", snapshot.TargetName)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
