// Package cache records which uploads have been scanned, in SQLite.
// It is derived data: deleting the database only loses duplicate detection.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/moneymate/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// FileName is the database file inside the cache directory.
const FileName = "scans.db"

// Scan is one successfully ingested upload.
type Scan struct {
	ID          string
	SHA256      string
	Filename    string
	FileType    model.FileType
	Company     string
	ReceiptDate model.Date
	ItemCount   int
	Total       decimal.Decimal
	Model       string
	ScannedAt   time.Time
}

// Cache is a SQLite-backed scan history.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath and applies migrations.
func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the most recent scan with the given content hash.
func (c *Cache) Lookup(ctx context.Context, sha string) (Scan, bool, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+scanColumns+` FROM scans
		WHERE sha256 = ? ORDER BY scanned_at DESC LIMIT 1`, sha)
	s, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Scan{}, false, nil
	}
	if err != nil {
		return Scan{}, false, fmt.Errorf("looking up scan: %w", err)
	}
	return s, true, nil
}

// Record stores s, assigning an ID and timestamp when unset. It returns the
// stored scan.
func (c *Cache) Record(ctx context.Context, s Scan) (Scan, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ScannedAt.IsZero() {
		s.ScannedAt = time.Now()
	}

	_, err := c.db.ExecContext(ctx, `INSERT INTO scans
		(scan_id, sha256, filename, file_type, company, receipt_date, item_count, total, model, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SHA256, s.Filename, string(s.FileType), s.Company, s.ReceiptDate.String(),
		s.ItemCount, s.Total.String(), s.Model, s.ScannedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Scan{}, fmt.Errorf("recording scan: %w", err)
	}
	return s, nil
}

// Recent returns up to limit scans, newest first.
func (c *Cache) Recent(ctx context.Context, limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.db.QueryContext(ctx, `SELECT `+scanColumns+` FROM scans
		ORDER BY scanned_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of recorded scans.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scans").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting scans: %w", err)
	}
	return n, nil
}

const scanColumns = `scan_id, sha256, filename, file_type, company, receipt_date,
	item_count, total, model, scanned_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(r rowScanner) (Scan, error) {
	var s Scan
	var fileType, date, total, at string
	if err := r.Scan(&s.ID, &s.SHA256, &s.Filename, &fileType, &s.Company, &date,
		&s.ItemCount, &total, &s.Model, &at); err != nil {
		return Scan{}, err
	}

	s.FileType = model.FileType(fileType)
	if d, err := model.ParseDate(date); err == nil {
		s.ReceiptDate = d
	}
	if v, err := decimal.NewFromString(total); err == nil {
		s.Total = v
	}
	if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
		s.ScannedAt = t
	}
	return s, nil
}
