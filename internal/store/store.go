// Package store is the persistence adapter: a pass-through cache of the
// normalized batch in a single wide sales table.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/schema"
)

// DefaultBatchSize bounds the row count of one insert round trip. The
// batching only bounds payload size; it is not a retry or partial-
// failure mechanism.
const DefaultBatchSize = 500

const dateFormat = "2006-01-02"

// SalesStore persists normalized batches in sqlite.
type SalesStore struct {
	db        *sqlx.DB
	logger    *slog.Logger
	batchSize int
}

// Option configures a SalesStore.
type Option func(*SalesStore)

// WithBatchSize overrides the insert batch size.
func WithBatchSize(n int) Option {
	return func(s *SalesStore) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SalesStore) { s.logger = logger }
}

// Open opens (creating if needed) the sqlite database at path and
// ensures the sales table exists per the canonical schema descriptor.
func Open(path string, opts ...Option) (*SalesStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create database directory", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open database", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to ping database", err)
	}

	s := &SalesStore{
		db:        db,
		logger:    slog.Default(),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "sales_store"))

	if _, err := db.Exec(schema.DDL()); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to create sales table", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *SalesStore) Close() error {
	return s.db.Close()
}

// Replace overwrites the stored batch: truncate, then insert in bounded
// batches. No transaction wraps the whole replace, so a mid-batch
// failure leaves the table partially written; the caller treats any
// error as fatal for the upload.
func (s *SalesStore) Replace(ctx context.Context, t *dataset.Table) error {
	fields := schema.Sales()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+schema.TableName); err != nil {
		return apperrors.NewStorageError("failed to truncate sales table", err)
	}

	insertPrefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ",
		schema.TableName, strings.Join(schema.SQLColumns(), ", "))
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(fields)), ",") + ")"

	for start := 0; start < t.NumRows(); start += s.batchSize {
		end := start + s.batchSize
		if end > t.NumRows() {
			end = t.NumRows()
		}

		args := make([]interface{}, 0, (end-start)*len(fields))
		rows := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			rows = append(rows, placeholder)
			for _, f := range fields {
				args = append(args, bindValue(t.At(i, f.Name), f.Type))
			}
		}

		stmt := insertPrefix + strings.Join(rows, ", ")
		if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
			return apperrors.NewStorageError(
				fmt.Sprintf("failed to insert batch rows %d-%d", start, end-1), err)
		}
	}

	s.logger.InfoContext(ctx, "batch persisted",
		slog.Int("rows", t.NumRows()),
		slog.Int("batch_size", s.batchSize))

	return nil
}

// Load reads the full stored batch back into the normalized schema. The
// returned table uses canonical column names.
func (s *SalesStore) Load(ctx context.Context) (*dataset.Table, error) {
	fields := schema.Sales()
	query := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(schema.SQLColumns(), ", "), schema.TableName)

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to select sales rows", err)
	}
	defer rows.Close()

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	t := dataset.New(names)

	for rows.Next() {
		scan, err := rows.SliceScan()
		if err != nil {
			return nil, apperrors.NewStorageError("failed to scan sales row", err)
		}
		values := make([]dataset.Value, len(fields))
		for i, f := range fields {
			values[i] = scanValue(scan[i], f.Type)
		}
		t.AppendRow(values)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate sales rows", err)
	}

	s.logger.DebugContext(ctx, "batch loaded from store",
		slog.Int("rows", t.NumRows()))

	return t, nil
}

// Count returns the stored row count.
func (s *SalesStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+schema.TableName)
	if err != nil {
		return 0, apperrors.NewStorageError("failed to count sales rows", err)
	}
	return n, nil
}

// bindValue maps a dataset value to a driver argument. Missing maps to
// SQL NULL.
func bindValue(v dataset.Value, t schema.FieldType) interface{} {
	if v.IsMissing() {
		return nil
	}
	switch t {
	case schema.TypeFloat:
		if f, ok := v.Float(); ok {
			return f
		}
	case schema.TypeInt:
		if i, ok := v.Int(); ok {
			return i
		}
	case schema.TypeDate:
		if d, ok := v.Time(); ok {
			return d.Format(dateFormat)
		}
	default:
		if s, ok := v.Str(); ok {
			return s
		}
	}
	return nil
}

// scanValue maps a driver value back to a dataset value. NULL maps to
// missing.
func scanValue(raw interface{}, t schema.FieldType) dataset.Value {
	if raw == nil {
		return dataset.Missing()
	}
	switch t {
	case schema.TypeFloat:
		switch x := raw.(type) {
		case float64:
			return dataset.Float(x)
		case int64:
			return dataset.Float(float64(x))
		}
	case schema.TypeInt:
		switch x := raw.(type) {
		case int64:
			return dataset.Int(x)
		case float64:
			return dataset.Int(int64(x))
		}
	case schema.TypeDate:
		switch x := raw.(type) {
		case time.Time:
			return dataset.Time(x)
		case string:
			if d, err := time.Parse(dateFormat, x); err == nil {
				return dataset.Time(d)
			}
		case []byte:
			if d, err := time.Parse(dateFormat, string(x)); err == nil {
				return dataset.Time(d)
			}
		}
	default:
		switch x := raw.(type) {
		case string:
			return dataset.String(x)
		case []byte:
			return dataset.String(string(x))
		}
	}
	return dataset.Missing()
}
