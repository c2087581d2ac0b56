package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog stores the committed result of a keyed ProcessReturn call.
type IdempotencyLog struct {
	Key                 string    `json:"key"` // Format: "return:<actor>:<client key>"
	ReturnTransactionID uuid.UUID `json:"return_transaction_id"`
	ResponseJSON        []byte    `json:"response_json"`
	CreatedAt           time.Time `json:"created_at"`
}

// BuildReturnIdempotencyKey scopes a client key to the staff member sending it.
func BuildReturnIdempotencyKey(actor, clientKey string) string {
	return "return:" + actor + ":" + clientKey
}
