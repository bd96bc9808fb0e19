// Package storage persists users and financial records in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"

	_ "modernc.org/sqlite"
)

// Repository wraps the SQLite connection behind owner-scoped record and
// user operations.
type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the database at dbPath and runs
// migrations before returning.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser inserts a user with an already-hashed password. A duplicate
// email maps to core.ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
		email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.ErrConflict
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("last insert id: %w", err)
	}

	return r.GetUserByID(ctx, id)
}

// GetUserByEmail looks a user up for login. Unknown emails map to
// core.ErrNotFound.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email))
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (r *Repository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// record is the flat row shape shared by expenses and incomes.
type record struct {
	ID          int64
	Title       string
	AmountCents int64
	Category    string
	OccurredOn  time.Time
	UserID      int64
	CreatedAt   time.Time
}

// createRecord inserts one row and returns it as stored, including the
// generated id and creation timestamp. Callers never supply an id.
func (r *Repository) createRecord(ctx context.Context, kind core.RecordKind, rec record) (record, error) {
	if rec.OccurredOn.IsZero() {
		rec.OccurredOn = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO records (kind, title, amount_cents, category, occurred_on, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(kind), rec.Title, rec.AmountCents, rec.Category, rec.OccurredOn, rec.UserID)
	if err != nil {
		return record{}, fmt.Errorf("insert %s: %w", kind, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return record{}, fmt.Errorf("last insert id: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, amount_cents, category, occurred_on, user_id, created_at
		 FROM records WHERE id = ?`, id)
	stored, err := scanRecord(row)
	if err != nil {
		return record{}, fmt.Errorf("read back %s: %w", kind, err)
	}

	slog.InfoContext(ctx, "Record saved",
		"kind", kind,
		"id", stored.ID,
		"title", stored.Title,
		"amount_cents", stored.AmountCents,
		"user_id", stored.UserID)

	return stored, nil
}

// listRecords returns every record of the kind owned by ownerID, ordered by
// occurrence date descending. Ties keep insertion order via id.
func (r *Repository) listRecords(ctx context.Context, kind core.RecordKind, ownerID int64) ([]record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, category, occurred_on, user_id, created_at
		 FROM records WHERE kind = ? AND user_id = ?
		 ORDER BY occurred_on DESC, id DESC`,
		string(kind), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}
	defer rows.Close()

	var out []record
	for rows.Next() {
		rec, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// deleteRecord removes the record only when ownerID owns it. Deleting a
// missing or non-owned id is a no-op success: the contract is idempotent.
func (r *Repository) deleteRecord(ctx context.Context, kind core.RecordKind, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE id = ? AND kind = ? AND user_id = ?`,
		id, string(kind), ownerID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "Delete matched no owned record",
			"kind", kind, "id", id, "user_id", ownerID)
	}
	return nil
}

// CategoryMonthTotal sums the owner's expenses in the given category for one
// calendar month. Used by the budget alert worker.
func (r *Repository) CategoryMonthTotal(ctx context.Context, ownerID int64, category string, year int, month time.Month) (core.Money, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var cents sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM records
		 WHERE kind = 'expense' AND user_id = ? AND category = ?
		   AND occurred_on >= ? AND occurred_on < ?`,
		ownerID, category, start, end).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("category month total: %w", err)
	}
	return core.Money{Cents: cents.Int64}, nil
}

// MonthTotal sums all of the owner's expenses for one calendar month.
func (r *Repository) MonthTotal(ctx context.Context, ownerID int64, year int, month time.Month) (core.Money, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var cents sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM records
		 WHERE kind = 'expense' AND user_id = ? AND occurred_on >= ? AND occurred_on < ?`,
		ownerID, start, end).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("month total: %w", err)
	}
	return core.Money{Cents: cents.Int64}, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (record, error) {
	return scanRecordRows(row)
}

func scanRecordRows(s scannable) (record, error) {
	var rec record
	err := s.Scan(&rec.ID, &rec.Title, &rec.AmountCents, &rec.Category,
		&rec.OccurredOn, &rec.UserID, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return record{}, core.ErrNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("scan record: %w", err)
	}
	return rec, nil
}

// isUniqueViolation matches the sqlite UNIQUE constraint error without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
