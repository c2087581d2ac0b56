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

const lookupIDLimit = 500

// CustomerRepo implements ports.CustomerRepository.
type CustomerRepo struct {
	pool Pool
}

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(pool Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// GetByID fetches a customer by UUID.
func (r *CustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, phone, nic, email, customer_type FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.NIC, &c.Email, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// FindIDs returns IDs of customers matching every non-empty filter field.
// Name and email match partially, phone and NIC exactly.
func (r *CustomerRepo) FindIDs(ctx context.Context, f domain.CustomerFilter) ([]uuid.UUID, error) {
	var (
		conditions []string
		args       []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != "" {
		add("name ILIKE $%d", "%"+f.Name+"%")
	}
	if f.Phone != "" {
		add("phone = $%d", f.Phone)
	}
	if f.NIC != "" {
		add("nic = $%d", f.NIC)
	}
	if f.Email != "" {
		add("email ILIKE $%d", "%"+f.Email+"%")
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT id FROM customers WHERE %s LIMIT %d`,
		strings.Join(conditions, " AND "), lookupIDLimit)
	return collectIDs(ctx, r.pool, query, args...)
}

// ProductRepo implements ports.ProductRepository.
type ProductRepo struct {
	pool Pool
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(pool Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// FindIDsByName returns products whose name contains the fragment.
func (r *ProductRepo) FindIDsByName(ctx context.Context, name string) ([]uuid.UUID, error) {
	query := fmt.Sprintf(`SELECT id FROM products WHERE name ILIKE $1 LIMIT %d`, lookupIDLimit)
	return collectIDs(ctx, r.pool, query, "%"+name+"%")
}

func collectIDs(ctx context.Context, q querier, query string, args ...interface{}) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lookup ids: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
