package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SequenceRepo implements ports.SequenceRepository with one counter row per
// (prefix, day). The upsert holds the row lock until the unit of work ends,
// so two concurrent settlements can never read the same value.
type SequenceRepo struct{}

// NewSequenceRepo creates a new SequenceRepo.
func NewSequenceRepo() *SequenceRepo {
	return &SequenceRepo{}
}

// Next returns the next counter value for prefix on day (YYMMDD).
func (r *SequenceRepo) Next(ctx context.Context, tx pgx.Tx, prefix string, day string) (int64, error) {
	var next int64
	err := tx.QueryRow(ctx, `INSERT INTO document_sequences (prefix, day, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, day) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`, prefix, day).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s%s: %w", prefix, day, err)
	}
	return next, nil
}
