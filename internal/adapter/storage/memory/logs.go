package memory

import (
	"context"
	"fmt"

	"returns-settlement-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository.
type IdempotencyRepo struct {
	store *Store
}

func NewIdempotencyRepo(s *Store) *IdempotencyRepo {
	return &IdempotencyRepo{store: s}
}

func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, dup := r.store.idempotency[log.Key]; dup {
		return fmt.Errorf("insert idempotency log: duplicate key %s", log.Key)
	}
	r.store.idempotency[log.Key] = *log
	t.stage(idempotencyKey(log.Key), nil)
	t.record(func() { delete(r.store.idempotency, log.Key) })
	return nil
}

func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.idempotency[key]
	if !ok {
		return nil, nil
	}
	if _, open := r.store.pending[idempotencyKey(key)]; open {
		return nil, nil
	}
	return &l, nil
}

func idempotencyKey(key string) string { return "idempotency:" + key }

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	store *Store
}

func NewAuditRepo(s *Store) *AuditRepo {
	return &AuditRepo{store: s}
}

func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.auditLogs = append(r.store.auditLogs, *log)
	return nil
}

// NotificationLogRepo implements ports.NotificationLogRepository.
type NotificationLogRepo struct {
	store *Store
}

func NewNotificationLogRepo(s *Store) *NotificationLogRepo {
	return &NotificationLogRepo{store: s}
}

func (r *NotificationLogRepo) Create(ctx context.Context, log *domain.NotificationDeliveryLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications = append(r.store.notifications, *log)
	return nil
}
