package postgres

import (
	"context"
	"fmt"
)

// settlementTables must exist before returns can be settled; a reachable
// database with an unmigrated schema reports unhealthy.
var settlementTables = []string{"return_transactions", "exchange_slips", "customer_overpayments"}

// HealthCheck reports whether the settlement database is reachable and migrated.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping counts the settlement tables visible on the search path.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var found int
	err := h.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM unnest($1::text[]) AS t(name) WHERE to_regclass(t.name) IS NOT NULL`,
		settlementTables,
	).Scan(&found)
	if err != nil {
		return fmt.Errorf("settlement database unreachable: %w", err)
	}
	if found != len(settlementTables) {
		return fmt.Errorf("settlement schema not migrated: %d of %d tables present", found, len(settlementTables))
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
