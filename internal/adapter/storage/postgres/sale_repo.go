package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const defaultSearchLimit = 50

const saleColumns = `s.id, s.invoice_no, s.customer_id, s.sale_date, s.total, s.status,
	s.total_returned, s.total_returned_items, s.last_return_at`

// SaleRepo implements ports.SaleRepository.
type SaleRepo struct {
	pool Pool
}

// NewSaleRepo creates a new SaleRepo.
func NewSaleRepo(pool Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

// GetByID fetches a sale with its lines and return log (no locking).
func (r *SaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE s.id = $1`
	return r.load(ctx, r.pool, query, id)
}

// GetByIDForUpdate locks the sale row for the rest of the transaction.
// Concurrent returns against the same sale queue here.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE s.id = $1 FOR UPDATE`
	return r.load(ctx, tx, query, id)
}

func (r *SaleRepo) load(ctx context.Context, q querier, query string, id uuid.UUID) (*domain.Sale, error) {
	s, err := scanSale(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	sales := []domain.Sale{*s}
	if err := r.attach(ctx, q, sales); err != nil {
		return nil, err
	}
	return &sales[0], nil
}

// Search lists sales matching every supplied filter, newest first.
func (r *SaleRepo) Search(ctx context.Context, q domain.SaleSearch) ([]domain.Sale, error) {
	var (
		conditions []string
		args       []interface{}
		argIdx     = 1
	)

	if q.InvoiceNo != "" {
		conditions = append(conditions, fmt.Sprintf("s.invoice_no ILIKE $%d", argIdx))
		args = append(args, "%"+q.InvoiceNo+"%")
		argIdx++
	}
	if q.CustomerIDs != nil {
		conditions = append(conditions, fmt.Sprintf("s.customer_id = ANY($%d)", argIdx))
		args = append(args, q.CustomerIDs)
		argIdx++
	}
	if q.ProductIDs != nil {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM sale_items si WHERE si.sale_id = s.id AND si.product_id = ANY($%d))", argIdx))
		args = append(args, q.ProductIDs)
		argIdx++
	}
	if q.From != nil {
		conditions = append(conditions, fmt.Sprintf("s.sale_date >= $%d", argIdx))
		args = append(args, *q.From)
		argIdx++
	}
	if q.To != nil {
		conditions = append(conditions, fmt.Sprintf("s.sale_date <= $%d", argIdx))
		args = append(args, *q.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query := fmt.Sprintf(`SELECT %s FROM sales s %s ORDER BY s.sale_date DESC LIMIT $%d`, saleColumns, where, argIdx)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search sales: %w", err)
	}

	var sales []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, *s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}

	if err := r.attach(ctx, r.pool, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// attach loads lines and return log entries for a batch of sales.
func (r *SaleRepo) attach(ctx context.Context, q querier, sales []domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(sales))
	index := make(map[uuid.UUID]int, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		index[s.ID] = i
	}

	itemRows, err := q.Query(ctx, `SELECT si.sale_id, si.product_id, p.category_id, si.product_name,
		si.quantity, si.unit_price, si.unit_cost, si.line_total
		FROM sale_items si LEFT JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1) ORDER BY si.sale_id, si.line_no`, ids)
	if err != nil {
		return fmt.Errorf("query sale items: %w", err)
	}
	for itemRows.Next() {
		var saleID uuid.UUID
		var it domain.SaleItem
		if err := itemRows.Scan(&saleID, &it.ProductID, &it.CategoryID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.UnitCost, &it.LineTotal); err != nil {
			itemRows.Close()
			return fmt.Errorf("scan sale item: %w", err)
		}
		if i, ok := index[saleID]; ok {
			sales[i].Items = append(sales[i].Items, it)
		}
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("iterate sale items: %w", err)
	}

	retRows, err := q.Query(ctx, `SELECT sale_id, return_transaction_id, return_number, items, amount,
		refund_method, processed_by, processed_at
		FROM sale_returns WHERE sale_id = ANY($1) ORDER BY processed_at`, ids)
	if err != nil {
		return fmt.Errorf("query sale returns: %w", err)
	}
	defer retRows.Close()
	for retRows.Next() {
		var saleID uuid.UUID
		var e domain.SaleReturnEntry
		if err := retRows.Scan(&saleID, &e.ReturnTransactionID, &e.ReturnNumber, &e.Items, &e.Amount,
			&e.RefundMethod, &e.ProcessedBy, &e.ProcessedAt); err != nil {
			return fmt.Errorf("scan sale return: %w", err)
		}
		if i, ok := index[saleID]; ok {
			sales[i].Returns = append(sales[i].Returns, e)
		}
	}
	return retRows.Err()
}

// AppendReturn appends to the return log and increments the summary in place.
// The guard on total_returned keeps the ledger from exceeding the sale total.
func (r *SaleRepo) AppendReturn(ctx context.Context, tx pgx.Tx, saleID uuid.UUID, entry domain.SaleReturnEntry, status domain.SaleStatus) error {
	_, err := tx.Exec(ctx, `INSERT INTO sale_returns
		(id, sale_id, return_transaction_id, return_number, items, amount, refund_method, processed_by, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), saleID, entry.ReturnTransactionID, entry.ReturnNumber, entry.Items,
		entry.Amount, entry.RefundMethod, entry.ProcessedBy, entry.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale return: %w", err)
	}

	units := 0
	for _, it := range entry.Items {
		units += it.Quantity
	}

	tag, err := tx.Exec(ctx, `UPDATE sales SET
		total_returned = total_returned + $2,
		total_returned_items = total_returned_items + $3,
		last_return_at = $4,
		status = $5
		WHERE id = $1 AND total_returned + $2 <= total`,
		saleID, entry.Amount, units, entry.ProcessedAt, status,
	)
	if err != nil {
		return fmt.Errorf("update sale return summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sale %s: return would exceed sale total", saleID)
	}
	return nil
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	s := &domain.Sale{}
	err := row.Scan(&s.ID, &s.InvoiceNo, &s.CustomerID, &s.SaleDate, &s.Total, &s.Status,
		&s.ReturnSummary.TotalReturned, &s.ReturnSummary.TotalReturnedItems, &s.ReturnSummary.LastReturnAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
