package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransactionKind string

const (
	CreditKindPurchaseAward CreditTransactionKind = "purchase_award"
	CreditKindReferralAward CreditTransactionKind = "referral_award"
)

// CreditTransaction is an audit record of a single credit balance mutation.
// Rows are written only by the purchase settlement transaction.
type CreditTransaction struct {
	ID            uuid.UUID             `json:"id" db:"id"`
	UserID        uuid.UUID             `json:"user_id" db:"user_id"`
	Amount        int                   `json:"amount" db:"amount"`
	Kind          CreditTransactionKind `json:"kind" db:"kind"`
	ReferralID    *uuid.UUID            `json:"referral_id,omitempty" db:"referral_id"`
	BalanceBefore int                   `json:"balance_before" db:"balance_before"`
	BalanceAfter  int                   `json:"balance_after" db:"balance_after"`
	CreatedAt     time.Time             `json:"created_at" db:"created_at"`
}
