package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/modcabinet/cabinetsorter/internal/mods"
	"github.com/modcabinet/cabinetsorter/internal/report"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) a cache database. Use ":memory:" for an
// ephemeral store, or a file path for persistent state across runs.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS directories (
		dir TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		signature BLOB NOT NULL,
		records BLOB NOT NULL,
		diagnostics BLOB,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_directories_hash ON directories(hash);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the previous run's snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT dir, hash, signature, records, diagnostics FROM directories ORDER BY dir")
	if err != nil {
		return nil, fmt.Errorf("query directories: %w", err)
	}
	defer rows.Close()

	snap := make(Snapshot)
	for rows.Next() {
		var e Entry
		var sigJSON, recJSON, diagJSON []byte
		if err := rows.Scan(&e.Dir, &e.Hash, &sigJSON, &recJSON, &diagJSON); err != nil {
			return nil, fmt.Errorf("scan directory row: %w", err)
		}
		if err := json.Unmarshal(sigJSON, &e.Signature); err != nil {
			return nil, fmt.Errorf("unmarshal signature for %s: %w", e.Dir, err)
		}
		if len(recJSON) > 0 {
			if err := json.Unmarshal(recJSON, &e.Records); err != nil {
				return nil, fmt.Errorf("unmarshal records for %s: %w", e.Dir, err)
			}
		}
		if len(diagJSON) > 0 {
			if err := json.Unmarshal(diagJSON, &e.Diagnostics); err != nil {
				return nil, fmt.Errorf("unmarshal diagnostics for %s: %w", e.Dir, err)
			}
		}
		snap[e.Dir] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return snap, nil
}

// Commit applies one run's upserts and removals in a single transaction.
func (s *SQLiteStore) Commit(ctx context.Context, upserts []Entry, removed []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, e := range upserts {
		sigJSON, err := json.Marshal(e.Signature)
		if err != nil {
			return fmt.Errorf("marshal signature for %s: %w", e.Dir, err)
		}
		recJSON, err := json.Marshal(normalizeRecords(e.Records))
		if err != nil {
			return fmt.Errorf("marshal records for %s: %w", e.Dir, err)
		}
		diagJSON, err := json.Marshal(normalizeDiagnostics(e.Diagnostics))
		if err != nil {
			return fmt.Errorf("marshal diagnostics for %s: %w", e.Dir, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO directories (dir, hash, signature, records, diagnostics, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(dir) DO UPDATE SET
				hash = excluded.hash,
				signature = excluded.signature,
				records = excluded.records,
				diagnostics = excluded.diagnostics,
				updated_at = excluded.updated_at`,
			e.Dir, e.Hash, sigJSON, recJSON, diagJSON, now)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", e.Dir, err)
		}
	}
	for _, dir := range removed {
		if _, err := tx.ExecContext(ctx, "DELETE FROM directories WHERE dir = ?", dir); err != nil {
			return fmt.Errorf("delete %s: %w", dir, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// normalizeRecords keeps the serialized form stable: nil and empty slices
// both encode as [].
func normalizeRecords(records []*mods.ModRecord) []*mods.ModRecord {
	if records == nil {
		return []*mods.ModRecord{}
	}
	return records
}

func normalizeDiagnostics(diags []report.Entry) []report.Entry {
	if diags == nil {
		return []report.Entry{}
	}
	return diags
}
