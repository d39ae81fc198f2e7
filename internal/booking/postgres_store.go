package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgxpool.Pool the store uses; tests inject a mock.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists bookings in a single table with jsonb meta.
type PostgresStore struct {
	db querier
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(db querier) *PostgresStore {
	if db == nil {
		panic("booking: pgx pool required")
	}
	return &PostgresStore{db: db}
}

// EnsureSchema creates the bookings table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			service TEXT,
			date TEXT,
			booking_time TEXT,
			location TEXT,
			created_at TIMESTAMPTZ,
			meta JSONB
		)`)
	if err != nil {
		return fmt.Errorf("booking: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, rec Record) (*Record, error) {
	rec.ID = NewID()
	rec.CreatedAt = time.Now().UTC()
	if rec.Meta == nil {
		rec.Meta = map[string]any{}
	}
	meta, err := json.Marshal(rec.Meta)
	if err != nil {
		return nil, fmt.Errorf("booking: marshal meta: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO bookings (id, service, date, booking_time, location, created_at, meta)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Service, rec.Date, rec.Time, rec.Location, rec.CreatedAt, meta)
	if err != nil {
		return nil, fmt.Errorf("booking: insert record: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) Find(ctx context.Context, f Filter) ([]Record, error) {
	query := `SELECT id, service, date, booking_time, location, created_at, meta FROM bookings`
	var clauses []string
	var args []any
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("service", f.Service)
	add("date", f.Date)
	add("booking_time", f.Time)
	add("location", f.Location)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("booking: find records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *PostgresStore) Update(ctx context.Context, id string, u Update) (*Record, error) {
	var sets []string
	var args []any
	set := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.Date != nil {
		set("date", *u.Date)
	}
	if u.Time != nil {
		set("booking_time", *u.Time)
	}
	if u.Location != nil {
		set("location", *u.Location)
	}
	if u.Meta != nil {
		meta, err := json.Marshal(u.Meta)
		if err != nil {
			return nil, fmt.Errorf("booking: marshal meta: %w", err)
		}
		set("meta", meta)
	}
	if len(sets) == 0 {
		return s.load(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE bookings SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("booking: update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.load(ctx, id)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("booking: delete record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Record, error) {
	return s.Find(ctx, Filter{})
}

func (s *PostgresStore) ResetAll(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("booking: reset: %w", err)
	}
	return nil
}

func (s *PostgresStore) SeedDemoData(ctx context.Context) error {
	for _, rec := range demoRecords(time.Now().UTC()) {
		if _, err := s.Create(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) load(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, service, date, booking_time, location, created_at, meta FROM bookings WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("booking: load record: %w", err)
	}
	return rec, nil
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan record: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate records: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var meta []byte
	if err := row.Scan(&rec.ID, &rec.Service, &rec.Date, &rec.Time, &rec.Location, &rec.CreatedAt, &meta); err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &rec.Meta); err != nil {
			return nil, err
		}
	}
	if rec.Meta == nil {
		rec.Meta = map[string]any{}
	}
	return &rec, nil
}
