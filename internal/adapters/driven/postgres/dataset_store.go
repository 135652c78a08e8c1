package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DatasetStore = (*DatasetStore)(nil)

const datasetColumns = "uid, schema_version, json, created_at, updated_at"

// orderByDate sorts dated records newest first, undated or malformed dates last
const orderByDate = `
		ORDER BY CASE WHEN json ->> 'date' ~ '^[0-9]{4}' THEN json ->> 'date' END DESC NULLS LAST,
			uid ASC`

const upsertDataset = `
		INSERT INTO datasets (uid, schema_version, json, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (uid) DO UPDATE SET
			schema_version = EXCLUDED.schema_version,
			json = EXCLUDED.json,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

// DatasetStore implements driven.DatasetStore using PostgreSQL JSONB
type DatasetStore struct {
	db *DB
}

// NewDatasetStore creates a new DatasetStore
func NewDatasetStore(db *DB) *DatasetStore {
	return &DatasetStore{db: db}
}

// rowQuerier is satisfied by *DB and *sql.Tx
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Upsert creates or replaces a dataset by UID, preserving created_at
func (s *DatasetStore) Upsert(ctx context.Context, ds *domain.Dataset) error {
	return upsert(ctx, s.db, ds)
}

// UpsertBatch upserts datasets in a single transaction
func (s *DatasetStore) UpsertBatch(ctx context.Context, datasets []*domain.Dataset) error {
	if len(datasets) == 0 {
		return nil
	}
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, ds := range datasets {
			if err := upsert(ctx, tx, ds); err != nil {
				return fmt.Errorf("upsert %s: %w", ds.UID, err)
			}
		}
		return nil
	})
}

func upsert(ctx context.Context, q rowQuerier, ds *domain.Dataset) error {
	doc, err := json.Marshal(ds.Document)
	if err != nil {
		return err
	}
	return q.QueryRowContext(ctx, upsertDataset, ds.UID, ds.SchemaVersion, doc).
		Scan(&ds.CreatedAt, &ds.UpdatedAt)
}

// Get retrieves a dataset by UID within scope
func (s *DatasetStore) Get(ctx context.Context, uid string, scope domain.Predicate) (*domain.Dataset, error) {
	b := &whereBuilder{}
	where, err := b.Where(scope)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + datasetColumns + " FROM datasets WHERE uid = " + b.arg(uid) + " AND " + where

	ds, err := scanDataset(s.db.QueryRowContext(ctx, query, b.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return ds, err
}

// Find returns one page of matching datasets
func (s *DatasetStore) Find(ctx context.Context, where domain.Predicate, page domain.Page) ([]*domain.Dataset, error) {
	b := &whereBuilder{}
	cond, err := b.Where(where)
	if err != nil {
		return nil, err
	}
	var query strings.Builder
	query.WriteString("SELECT " + datasetColumns + " FROM datasets WHERE " + cond)
	query.WriteString(orderByDate)
	query.WriteString(" LIMIT " + b.arg(page.Size) + " OFFSET " + b.arg(page.Offset()))

	return s.query(ctx, query.String(), b.args)
}

// List returns every matching dataset
func (s *DatasetStore) List(ctx context.Context, where domain.Predicate) ([]*domain.Dataset, error) {
	b := &whereBuilder{}
	cond, err := b.Where(where)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, "SELECT "+datasetColumns+" FROM datasets WHERE "+cond+orderByDate, b.args)
}

// Count returns the number of matching datasets
func (s *DatasetStore) Count(ctx context.Context, where domain.Predicate) (int, error) {
	b := &whereBuilder{}
	cond, err := b.Where(where)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM datasets WHERE "+cond, b.args...).Scan(&n)
	return n, err
}

// Ping checks the database is reachable
func (s *DatasetStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *DatasetStore) query(ctx context.Context, query string, args []any) ([]*domain.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	datasets := []*domain.Dataset{}
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (*domain.Dataset, error) {
	var ds domain.Dataset
	var doc []byte
	if err := row.Scan(&ds.UID, &ds.SchemaVersion, &doc, &ds.CreatedAt, &ds.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, &ds.Document); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", ds.UID, err)
	}
	return &ds, nil
}
