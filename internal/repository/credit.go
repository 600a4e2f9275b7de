package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/kartikey742/referral-credit-system/internal/model"
)

// GetCreditTransactions returns a user's credit audit history, newest first.
func (r *Repository) GetCreditTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CreditTransaction, error) {
	var transactions []model.CreditTransaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	return transactions, err
}
