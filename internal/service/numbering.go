package service

import (
	"context"
	"fmt"
	"time"

	"returns-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const numberDayLayout = "060102"

// numberer issues <PREFIX><YYMMDD><NNNN> identifiers from the per-day counter
// row. The counter is incremented inside the caller's unit of work, so a
// rolled back settlement gives its number back.
type numberer struct {
	seqRepo ports.SequenceRepository
	loc     *time.Location
}

func (n numberer) next(ctx context.Context, tx pgx.Tx, prefix string, at time.Time) (string, error) {
	loc := n.loc
	if loc == nil {
		loc = time.UTC
	}
	day := at.In(loc).Format(numberDayLayout)
	seq, err := n.seqRepo.Next(ctx, tx, prefix, day)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", prefix, err)
	}
	return FormatNumber(prefix, day, seq), nil
}

// FormatNumber renders a document number. Sequences past 9999 widen the
// suffix instead of wrapping.
func FormatNumber(prefix, day string, seq int64) string {
	return fmt.Sprintf("%s%s%04d", prefix, day, seq)
}
