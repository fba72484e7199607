package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/backoffice/internal/platform/db"
)

// PGRepository loads report records from PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a repository backed by the pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const recordsBySource = `SELECT id::text, occurred_at, name, COALESCE(sku, ''), category, quantity, amount, attributes
FROM backoffice_records
WHERE source = $1
ORDER BY occurred_at DESC, id`

// Records returns every record published for the given source.
func (r *PGRepository) Records(ctx context.Context, source string) ([]Record, error) {
	rows, err := r.pool.Query(ctx, recordsBySource, source)
	if err != nil {
		return nil, fmt.Errorf("records: query %s: %w", source, err)
	}
	out, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("records: scan %s: %w", source, err)
	}
	return out, nil
}

func scanRecord(row pgx.CollectableRow) (Record, error) {
	return scanRow(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (Record, error) {
	var (
		rec        Record
		occurredAt time.Time
		attrs      map[string]string
	)
	if err := row.Scan(&rec.ID, &occurredAt, &rec.Name, &rec.SKU, &rec.Category, &rec.Quantity, &rec.Amount, &attrs); err != nil {
		return Record{}, err
	}
	rec.OccurredAt = occurredAt.UTC()
	if len(attrs) > 0 {
		rec.Attributes = attrs
	}
	return rec, nil
}

var recordColumns = []string{"id", "source", "occurred_at", "name", "sku", "category", "quantity", "amount", "attributes"}

// Replace swaps every record of source for recs in a single transaction.
func (r *PGRepository) Replace(ctx context.Context, source string, recs []Record) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM backoffice_records WHERE source = $1`, source); err != nil {
			return fmt.Errorf("records: clear %s: %w", source, err)
		}
		rows := make([][]any, 0, len(recs))
		for _, rec := range recs {
			row, err := copyRow(source, rec)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"backoffice_records"}, recordColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("records: copy %s: %w", source, err)
		}
		return nil
	})
}

// copyRow lays rec out in recordColumns order. Empty SKUs are stored as NULL
// and missing attributes as an empty object.
func copyRow(source string, rec Record) ([]any, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("records: %s id %q: %w", source, rec.ID, err)
	}
	var sku any
	if rec.SKU != "" {
		sku = rec.SKU
	}
	attrs := rec.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	return []any{id, source, rec.OccurredAt, rec.Name, sku, rec.Category, rec.Quantity, rec.Amount, attrs}, nil
}
