package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amishk599/careerwatch/internal/model"

	_ "modernc.org/sqlite"
)

var _ model.RegistryStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the registry in a SQLite database, one row per seen
// identifier.
type SQLiteStore struct {
	db      *sql.DB
	sources []string
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// seen_jobs table exists.
func NewSQLiteStore(dbPath string, sources []string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_jobs (
		source     TEXT    NOT NULL,
		job_id     TEXT    NOT NULL,
		position   INTEGER NOT NULL,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (source, job_id)
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_jobs table: %w", err)
	}

	return &SQLiteStore{db: db, sources: sources}, nil
}

// Load returns every recorded identifier grouped by source, in insertion order.
func (s *SQLiteStore) Load() (model.Registry, error) {
	rows, err := s.db.Query("SELECT source, job_id FROM seen_jobs ORDER BY source, position")
	if err != nil {
		return nil, fmt.Errorf("loading seen jobs: %w", err)
	}
	defer rows.Close()

	reg := model.NewRegistry(s.sources...)
	for rows.Next() {
		var source, id string
		if err := rows.Scan(&source, &id); err != nil {
			return nil, fmt.Errorf("scanning seen job: %w", err)
		}
		reg[source] = append(reg[source], id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading seen jobs: %w", err)
	}
	return reg, nil
}

// Save makes the table match reg in a single transaction. Rows that already
// exist keep their first_seen timestamp.
func (s *SQLiteStore) Save(reg model.Registry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("CREATE TEMP TABLE IF NOT EXISTS keep_jobs (source TEXT, job_id TEXT)"); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM keep_jobs"); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}

	for source, ids := range reg {
		for pos, id := range ids {
			_, err := tx.Exec(
				`INSERT INTO seen_jobs (source, job_id, position) VALUES (?, ?, ?)
				 ON CONFLICT(source, job_id) DO UPDATE SET position = excluded.position`,
				source, id, pos,
			)
			if err != nil {
				return fmt.Errorf("recording %s/%s: %w", source, id, err)
			}
			if _, err := tx.Exec("INSERT INTO keep_jobs (source, job_id) VALUES (?, ?)", source, id); err != nil {
				return fmt.Errorf("saving registry: %w", err)
			}
		}
	}

	_, err = tx.Exec(`DELETE FROM seen_jobs WHERE NOT EXISTS (
		SELECT 1 FROM keep_jobs k WHERE k.source = seen_jobs.source AND k.job_id = seen_jobs.job_id
	)`)
	if err != nil {
		return fmt.Errorf("pruning seen jobs: %w", err)
	}

	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
