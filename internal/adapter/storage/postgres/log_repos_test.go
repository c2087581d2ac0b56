package postgres

import (
	"context"
	"testing"
	"time"

	"returns-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	actor := "cashier-1"
	entry := &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &actor,
		Action:       domain.AuditActionReturnProcessed,
		ResourceType: "return",
		ResourceID:   uuid.NewString(),
		Details:      `{"status":201}`,
		IPAddress:    "10.0.0.5",
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.ActorID, "RETURN_PROCESSED", entry.ResourceType,
			entry.ResourceID, entry.Details, entry.IPAddress, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewAuditRepo(mock).Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationLogRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	status := 502
	msg := "bad gateway"
	entry := &domain.NotificationDeliveryLog{
		ID:         uuid.New(),
		EventID:    uuid.New(),
		EventType:  domain.EventReturnProcessed,
		TargetURL:  "https://hooks.example.com/returns",
		Payload:    `{}`,
		HTTPStatus: &status,
		Attempt:    2,
		Status:     domain.DeliveryStatusFailed,
		LastError:  &msg,
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO notification_delivery_logs").
		WithArgs(entry.ID, entry.EventID, "RETURN_PROCESSED", entry.TargetURL, entry.Payload,
			entry.HTTPStatus, 2, "FAILED", entry.LastError, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewNotificationLogRepo(mock).Create(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}
