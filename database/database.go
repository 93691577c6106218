package database

import (
	"database/sql"
	"sync"
	"time"

	"datasetprep/logging"
	"datasetprep/types"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Catalog stores the per-file outcomes of one run in sqlite.
// It is a report only; no pass reads it back.
// Record and Close are serialized so a signal-driven Close waits for the
// insert in flight.
type Catalog struct {
	db     *sql.DB
	runID  string
	mu     sync.Mutex
	closed bool
}

// ErrCatalogClosed is returned by Record after Close
var ErrCatalogClosed = errors.New("catalog is closed")

// InitDatabase opens (or creates) the catalog database and its schema
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open catalog %s", dbPath)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		path TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		output_path TEXT,
		fingerprint TEXT,
		duplicate_of TEXT,
		label INTEGER,
		width INTEGER,
		height INTEGER,
		created_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_stage ON outcomes(run_id, stage);
	CREATE INDEX IF NOT EXISTS idx_outcomes_fingerprint ON outcomes(fingerprint);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "cannot create catalog schema")
	}

	logging.DebugLog("Catalog ready at %s", dbPath)
	return db, nil
}

// NewCatalog opens the catalog at dbPath for a new run
func NewCatalog(dbPath string) (*Catalog, error) {
	db, err := InitDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return &Catalog{db: db, runID: time.Now().UTC().Format("20060102T150405.000000000Z")}, nil
}

// RunID identifies the rows written by this catalog
func (c *Catalog) RunID() string {
	return c.runID
}

// DB exposes the underlying connection
func (c *Catalog) DB() *sql.DB {
	return c.db
}

// Close closes the database connection. Later calls do nothing.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

// Record implements the scanner and dataset outcome recorder
func (c *Catalog) Record(outcome types.Outcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCatalogClosed
	}
	return StoreOutcome(c.db, c.runID, outcome)
}

// StoreOutcome inserts one outcome row
func StoreOutcome(db *sql.DB, runID string, outcome types.Outcome) error {
	stmt, err := db.Prepare(`
		INSERT INTO outcomes (
			run_id, stage, path, status, detail, output_path, fingerprint, duplicate_of, label, width, height, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrapf(err, "cannot prepare statement for %s", outcome.Path)
	}
	defer stmt.Close()

	// labels only mean something for accepted package outcomes
	var label interface{}
	if outcome.Stage == types.StagePackage && outcome.Status == types.StatusPackaged {
		label = outcome.Label
	}

	_, err = stmt.Exec(
		runID,
		string(outcome.Stage),
		outcome.Path,
		string(outcome.Status),
		outcome.Detail,
		outcome.OutputPath,
		string(outcome.Fingerprint),
		outcome.DuplicateOf,
		label,
		outcome.Width,
		outcome.Height,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrapf(err, "cannot insert outcome for %s", outcome.Path)
	}
	return nil
}

// StageStats contains counts for one stage of a run
type StageStats struct {
	Total        int
	ByStatus     map[types.Status]int
	UniqueHashes int
}

// GetStageStats retrieves statistics about one stage of a run
func GetStageStats(db *sql.DB, runID string, stage types.Stage) (*StageStats, error) {
	stats := &StageStats{ByStatus: make(map[types.Status]int)}

	rows, err := db.Query(
		"SELECT status, COUNT(*) FROM outcomes WHERE run_id = ? AND stage = ? GROUP BY status",
		runID, string(stage))
	if err != nil {
		return nil, errors.Wrap(err, "failed to count outcomes")
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan outcome count")
		}
		stats.ByStatus[types.Status(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read outcome counts")
	}

	err = db.QueryRow(
		"SELECT COUNT(DISTINCT fingerprint) FROM outcomes WHERE run_id = ? AND stage = ? AND fingerprint != ''",
		runID, string(stage)).Scan(&stats.UniqueHashes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unique hashes")
	}

	return stats, nil
}
