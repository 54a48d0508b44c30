// mirror.go - DuckDB-backed durable mirror of the results namespace
package blobstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/marcboeker/go-duckdb"
)

// Mirror persists results-namespace blobs in a DuckDB file so a restarted
// server can restore processor output that the volatile store lost. Only
// results are mirrored; uploads are deliberately volatile.
type Mirror struct {
	db     *sql.DB
	dbPath string
}

// OpenMirror opens (or creates) the mirror database at dbPath.
func OpenMirror(dbPath string) (*Mirror, error) {
	connector, err := duckdb.NewConnector(dbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("opening mirror database: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS result_blobs (
			path     VARCHAR PRIMARY KEY,
			saved_at BIGINT NOT NULL,
			content  BLOB NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating mirror table: %w", err)
	}

	return &Mirror{db: db, dbPath: dbPath}, nil
}

// Put stores or replaces a mirrored blob.
func (m *Mirror) Put(path string, savedAt time.Time, data []byte) error {
	_, err := m.db.Exec(
		`INSERT OR REPLACE INTO result_blobs (path, saved_at, content) VALUES (?, ?, ?)`,
		path, savedAt.UnixMilli(), data,
	)
	return err
}

// Delete removes a mirrored blob. Missing rows are not an error.
func (m *Mirror) Delete(path string) error {
	_, err := m.db.Exec(`DELETE FROM result_blobs WHERE path = ?`, path)
	return err
}

// Clear removes every mirrored blob.
func (m *Mirror) Clear() error {
	_, err := m.db.Exec(`DELETE FROM result_blobs`)
	return err
}

// LoadAll streams every mirrored blob to fn in saved-at order.
func (m *Mirror) LoadAll(fn func(path string, savedAt time.Time, data []byte)) error {
	rows, err := m.db.Query(`SELECT path, saved_at, content FROM result_blobs ORDER BY saved_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			path    string
			savedAt int64
			content []byte
		)
		if err := rows.Scan(&path, &savedAt, &content); err != nil {
			return err
		}
		fn(path, time.UnixMilli(savedAt), content)
	}
	return rows.Err()
}

// Close closes the underlying database.
func (m *Mirror) Close() error {
	return m.db.Close()
}
