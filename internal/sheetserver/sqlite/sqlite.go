// Package sqlite stores the emulated spreadsheet tables in SQLite.
//
// Each table keeps a seq column that preserves insertion order, the way a
// sheet's row numbers do. Ids are data, not keys: duplicates are possible,
// exactly as in a hand-edited sheet, and lookups act on the first match.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS equipment (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            INTEGER NOT NULL,
	name          TEXT    NOT NULL,
	category      TEXT    NOT NULL,
	serial_number TEXT    NOT NULL,
	available     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS checkouts (
	seq             INTEGER PRIMARY KEY AUTOINCREMENT,
	id              INTEGER NOT NULL,
	student_name    TEXT    NOT NULL,
	student_id      TEXT    NOT NULL,
	student_email   TEXT    NOT NULL,
	student_major   TEXT    NOT NULL,
	faculty_sponsor TEXT    NOT NULL,
	checkout_date   TEXT    NOT NULL,
	return_date     TEXT    NOT NULL,
	equipment_id    INTEGER NOT NULL,
	equipment_name  TEXT    NOT NULL,
	serial_number   TEXT    NOT NULL,
	returned        INTEGER NOT NULL,
	comments        TEXT    NOT NULL
);
`

// SQLite implements sheetserver.Storage.
type SQLite struct {
	db *sql.DB
}

// New opens (or creates) the database at path and ensures the schema.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Seed fills empty tables with the given rows. It reports whether anything
// was written; a database that already holds equipment is left alone.
func (s *SQLite) Seed(ctx context.Context, equipment []inventory.EquipmentItem, checkouts []inventory.CheckoutRecord) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM equipment").Scan(&count); err != nil {
		return false, fmt.Errorf("Seed: count: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("Seed: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range equipment {
		if err := insertEquipment(ctx, tx, item); err != nil {
			return false, fmt.Errorf("Seed: %w", err)
		}
	}
	for _, rec := range checkouts {
		if err := insertCheckout(ctx, tx, rec); err != nil {
			return false, fmt.Errorf("Seed: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("Seed: commit: %w", err)
	}
	return true, nil
}

// Equipment returns the equipment table in row order.
func (s *SQLite) Equipment(ctx context.Context) ([]inventory.EquipmentItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, category, serial_number, available FROM equipment ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("Equipment: query: %w", err)
	}
	defer rows.Close()

	items := make([]inventory.EquipmentItem, 0)
	for rows.Next() {
		var item inventory.EquipmentItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.SerialNumber, &item.Available); err != nil {
			return nil, fmt.Errorf("Equipment: scan row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Equipment: rows iteration: %w", err)
	}
	return items, nil
}

// Checkouts returns the checkout table in row order.
func (s *SQLite) Checkouts(ctx context.Context) ([]inventory.CheckoutRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, student_name, student_id, student_email, student_major, faculty_sponsor,
		       checkout_date, return_date, equipment_id, equipment_name, serial_number,
		       returned, comments
		FROM checkouts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("Checkouts: query: %w", err)
	}
	defer rows.Close()

	records := make([]inventory.CheckoutRecord, 0)
	for rows.Next() {
		var rec inventory.CheckoutRecord
		if err := rows.Scan(
			&rec.ID, &rec.StudentName, &rec.StudentID, &rec.StudentEmail, &rec.StudentMajor,
			&rec.FacultySponsor, &rec.CheckoutDate, &rec.ReturnDate, &rec.EquipmentID,
			&rec.EquipmentName, &rec.SerialNumber, &rec.Returned, &rec.Comments,
		); err != nil {
			return nil, fmt.Errorf("Checkouts: scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Checkouts: rows iteration: %w", err)
	}
	return records, nil
}

// AppendCheckout assigns the last row's id plus one (1 for an empty table),
// appends the row unreturned and marks the equipment unavailable.
func (s *SQLite) AppendCheckout(ctx context.Context, rec inventory.CheckoutRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("AppendCheckout: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lastID int
	err = tx.QueryRowContext(ctx, "SELECT id FROM checkouts ORDER BY seq DESC LIMIT 1").Scan(&lastID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("AppendCheckout: last id: %w", err)
	}
	rec.ID = lastID + 1
	rec.Returned = false

	if err := insertCheckout(ctx, tx, rec); err != nil {
		return 0, fmt.Errorf("AppendCheckout: %w", err)
	}
	if _, err := setAvailable(ctx, tx, rec.EquipmentID, false); err != nil {
		return 0, fmt.Errorf("AppendCheckout: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("AppendCheckout: commit: %w", err)
	}
	return rec.ID, nil
}

// MarkReturned flags the first checkout with the id returned and, when it
// names equipment, makes that item available again.
func (s *SQLite) MarkReturned(ctx context.Context, checkoutID int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("MarkReturned: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row int64
	var equipmentID int
	err = tx.QueryRowContext(ctx,
		"SELECT seq, equipment_id FROM checkouts WHERE id = ? ORDER BY seq LIMIT 1", checkoutID,
	).Scan(&row, &equipmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("MarkReturned: find: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE checkouts SET returned = 1 WHERE seq = ?", row); err != nil {
		return false, fmt.Errorf("MarkReturned: exec: %w", err)
	}
	if equipmentID != 0 {
		if _, err := setAvailable(ctx, tx, equipmentID, true); err != nil {
			return false, fmt.Errorf("MarkReturned: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("MarkReturned: commit: %w", err)
	}
	return true, nil
}

// SetAvailability sets the flag on the first item with the id.
func (s *SQLite) SetAvailability(ctx context.Context, equipmentID int, available bool) (bool, error) {
	found, err := setAvailable(ctx, s.db, equipmentID, available)
	if err != nil {
		return false, fmt.Errorf("SetAvailability: %w", err)
	}
	return found, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setAvailable(ctx context.Context, db execer, equipmentID int, available bool) (bool, error) {
	result, err := db.ExecContext(ctx, `
		UPDATE equipment SET available = ?
		WHERE seq = (SELECT seq FROM equipment WHERE id = ? ORDER BY seq LIMIT 1)`,
		available, equipmentID)
	if err != nil {
		return false, fmt.Errorf("update availability: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func insertEquipment(ctx context.Context, db execer, item inventory.EquipmentItem) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO equipment (id, name, category, serial_number, available) VALUES (?, ?, ?, ?, ?)",
		item.ID, item.Name, item.Category, item.SerialNumber, item.Available)
	if err != nil {
		return fmt.Errorf("insert equipment %d: %w", item.ID, err)
	}
	return nil
}

func insertCheckout(ctx context.Context, db execer, rec inventory.CheckoutRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO checkouts (
			id, student_name, student_id, student_email, student_major, faculty_sponsor,
			checkout_date, return_date, equipment_id, equipment_name, serial_number,
			returned, comments
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StudentName, rec.StudentID, rec.StudentEmail, rec.StudentMajor, rec.FacultySponsor,
		rec.CheckoutDate, rec.ReturnDate, rec.EquipmentID, rec.EquipmentName, rec.SerialNumber,
		rec.Returned, rec.Comments)
	if err != nil {
		return fmt.Errorf("insert checkout %d: %w", rec.ID, err)
	}
	return nil
}
