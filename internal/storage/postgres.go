package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Postgres stores one collection as a JSONB document table:
// (key text primary key, num_id bigint, doc jsonb). The open document
// shape of the resources (nested contacts, location maps, line items)
// maps onto a single jsonb column rather than per-field columns.
type Postgres[T any] struct {
	db    *sql.DB
	table string
}

// NewPostgres creates the backing table if needed. table must be one of
// the fixed collection names wired in main, never request input.
func NewPostgres[T any](db *sql.DB, table string) (*Postgres[T], error) {
	_, err := db.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  key    text PRIMARY KEY,
  num_id bigint,
  doc    jsonb NOT NULL
)`, table))
	if err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return &Postgres[T]{db: db, table: table}, nil
}

func (p *Postgres[T]) List(ctx context.Context) ([]T, error) {
	rows, err := p.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT doc FROM %s ORDER BY num_id NULLS LAST, key`, p.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (p *Postgres[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	var raw []byte
	err := p.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT doc FROM %s WHERE key=$1`, p.table), key).Scan(&raw)
	if err == sql.ErrNoRows {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, err
	}
	return v, nil
}

func (p *Postgres[T]) Create(ctx context.Context, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (key, num_id, doc) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO NOTHING`, p.table),
		key, numOrNull(key), raw)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrExists
	}
	return nil
}

func (p *Postgres[T]) CreateWithNextID(ctx context.Context, build func(id int) (string, T)) (T, error) {
	var zero T
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	// Serialize id assignment against concurrent creators.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`LOCK TABLE %s IN SHARE ROW EXCLUSIVE MODE`, p.table)); err != nil {
		return zero, err
	}
	var id int
	if err := tx.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COALESCE(MAX(num_id), 0) + 1 FROM %s`, p.table)).Scan(&id); err != nil {
		return zero, err
	}

	key, v := build(id)
	raw, err := json.Marshal(v)
	if err != nil {
		return zero, err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (key, num_id, doc) VALUES ($1, $2, $3)`, p.table),
		key, int64(id), raw); err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return v, nil
}

func (p *Postgres[T]) Put(ctx context.Context, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET doc=$1 WHERE key=$2`, p.table), raw, key)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres[T]) Delete(ctx context.Context, key string) error {
	res, err := p.db.ExecContext(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE key=$1`, p.table), key)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func numOrNull(key string) sql.NullInt64 {
	if n, ok := keyNum(key); ok {
		return sql.NullInt64{Int64: int64(n), Valid: true}
	}
	return sql.NullInt64{}
}
