package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a DocumentStore over a single JSONB table, keyed by
// (collection, id). Equality queries use JSONB containment so they can
// match non-string values and use a GIN index when one exists.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore returns a store over pool. An empty table name defaults
// to "documents".
func NewPostgresStore(pool *pgxpool.Pool, table string) *PostgresStore {
	if table == "" {
		table = "documents"
	}
	return &PostgresStore{pool: pool, table: table}
}

// EnsureSchema creates the backing table and containment index when they
// do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			doc JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_doc_gin ON %s USING GIN (doc jsonb_path_ops)`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: ensure schema: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE collection = $1 AND id = $2`, s.table)
	err := s.pool.QueryRow(ctx, query, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return decodeDoc(raw)
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (collection, id, doc) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc`, s.table)
	if _, err := s.pool.Exec(ctx, query, collection, id, raw); err != nil {
		return fmt.Errorf("%w: set %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode update %s/%s: %w", collection, id, err)
	}
	query := fmt.Sprintf(`UPDATE %s SET doc = doc || $3::jsonb WHERE collection = $1 AND id = $2`, s.table)
	tag, err := s.pool.Exec(ctx, query, collection, id, raw)
	if err != nil {
		return fmt.Errorf("%w: update %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindOne(ctx context.Context, collection, field string, value any) (string, Document, error) {
	probe, err := json.Marshal(Document{field: value})
	if err != nil {
		return "", nil, fmt.Errorf("encode query on %s: %w", field, err)
	}
	var (
		id  string
		raw []byte
	)
	query := fmt.Sprintf(`SELECT id, doc FROM %s WHERE collection = $1 AND doc @> $2::jsonb LIMIT 1`, s.table)
	err = s.pool.QueryRow(ctx, query, collection, probe).Scan(&id, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: find %s.%s: %v", ErrUnavailable, collection, field, err)
	}
	doc, err := decodeDoc(raw)
	if err != nil {
		return "", nil, err
	}
	return id, doc, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func decodeDoc(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
