package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationToken is a single-use secret proving control of the email
// address tied to an account. Its lifetime does not bound the account's;
// deleting the account removes any outstanding tokens.
type VerificationToken struct {
	ID         uuid.UUID  `json:"id"`
	AccountID  uuid.UUID  `json:"account_id"`
	Value      string     `json:"value"`
	CreatedAt  time.Time  `json:"created_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

func (t *VerificationToken) Consumed() bool {
	return t.ConsumedAt != nil
}
