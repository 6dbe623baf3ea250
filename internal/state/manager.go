package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DBFileName is the history database inside the data directory
const DBFileName = "history.db"

// Run statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Manager handles run history persistence
type Manager struct {
	db *sql.DB
}

// RunRecord represents a single myfind invocation
type RunRecord struct {
	ID         string // uuid, assigned by SaveRun when empty
	StartPath  string
	Expression string
	StartTime  time.Time
	EndTime    time.Time
	Status     string // "success", "failed"
	Matched    int    // entries written to stdout
	Errors     int    // contained per-entry errors
	Error      string // fatal error, if any
}

// Duration returns how long the run took
func (r RunRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// NewManager opens (and creates) the history database in dataDir
func NewManager(dataDir string) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Limit connection pool to prevent "database is locked" errors
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// 多個 myfind 同時執行時靠 WAL + busy timeout 排隊寫入
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	manager := &Manager{db: db}

	if err := manager.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return manager, nil
}

// initSchema creates the database schema
func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		start_path TEXT NOT NULL,
		expression TEXT NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		matched INTEGER DEFAULT 0,
		errors INTEGER DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_start_time ON runs(start_time DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	_, err := m.db.Exec(schema)
	return err
}

// SaveRun records a run and returns its id
func (m *Manager) SaveRun(ctx context.Context, record RunRecord) (string, error) {
	if record.Status != StatusSuccess && record.Status != StatusFailed {
		return "", fmt.Errorf("invalid status: %s (must be 'success' or 'failed')", record.Status)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	} else if _, err := uuid.Parse(record.ID); err != nil {
		return "", fmt.Errorf("invalid run id %q: %w", record.ID, err)
	}

	query := `
		INSERT INTO runs (id, start_path, expression, start_time, end_time, status, matched, errors, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.ExecContext(ctx, query,
		record.ID,
		record.StartPath,
		record.Expression,
		record.StartTime.UTC(),
		record.EndTime.UTC(),
		record.Status,
		record.Matched,
		record.Errors,
		record.Error,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run record: %w", err)
	}

	return record.ID, nil
}

// GetHistory retrieves the most recent runs, newest first
func (m *Manager) GetHistory(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, start_path, expression, start_time, end_time, status, matched, errors, error
		FROM runs
		ORDER BY start_time DESC
		LIMIT ?
	`

	rows, err := m.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var errText sql.NullString
		err := rows.Scan(
			&record.ID,
			&record.StartPath,
			&record.Expression,
			&record.StartTime,
			&record.EndTime,
			&record.Status,
			&record.Matched,
			&record.Errors,
			&errText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		record.Error = errText.String
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
