// Package storage keeps the local report index: a small sqlite database
// recording every PDF report the user has downloaded, so past reports
// can be listed and reopened without asking the backend again.
package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Report is one downloaded PDF report.
type Report struct {
	ID        string
	CheckupID int64
	URL       string
	Path      string
	SavedAt   time.Time
}

type ReportStore struct {
	db *sql.DB
}

func NewReportStore(dataDir string) (*ReportStore, error) {
	dbPath := filepath.Join(dataDir, "reports.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &ReportStore{db: db}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (rs *ReportStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		checkup_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		path TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_checkup ON reports(checkup_id);
	`

	_, err := rs.db.Exec(schema)
	return err
}

// Add records a downloaded report.
func (rs *ReportStore) Add(report Report) error {
	if report.SavedAt.IsZero() {
		report.SavedAt = time.Now()
	}

	_, err := rs.db.Exec(
		`INSERT OR REPLACE INTO reports (id, checkup_id, url, path, saved_at) VALUES (?, ?, ?, ?, ?)`,
		report.ID, report.CheckupID, report.URL, report.Path, report.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record report: %w", err)
	}
	return nil
}

// List returns all recorded reports, newest first.
func (rs *ReportStore) List() ([]Report, error) {
	rows, err := rs.db.Query(
		`SELECT id, checkup_id, url, path, saved_at FROM reports ORDER BY saved_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.CheckupID, &r.URL, &r.Path, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// ForCheckup returns the most recent report recorded for a checkup, or
// nil when none exists.
func (rs *ReportStore) ForCheckup(checkupID int64) (*Report, error) {
	row := rs.db.QueryRow(
		`SELECT id, checkup_id, url, path, saved_at FROM reports WHERE checkup_id = ? ORDER BY saved_at DESC LIMIT 1`,
		checkupID,
	)

	var r Report
	if err := row.Scan(&r.ID, &r.CheckupID, &r.URL, &r.Path, &r.SavedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &r, nil
}

// Delete removes a report record (the file itself is the user's).
func (rs *ReportStore) Delete(id string) error {
	_, err := rs.db.Exec(`DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (rs *ReportStore) Close() error {
	return rs.db.Close()
}
