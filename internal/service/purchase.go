package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kartikey742/referral-credit-system/internal/model"
	"github.com/kartikey742/referral-credit-system/internal/repository"
)

// PurchaseService fronts the purchase settlement transaction. All credit
// balance mutation in the system goes through it.
type PurchaseService struct {
	repo *repository.Repository
}

func NewPurchaseService(repo *repository.Repository) *PurchaseService {
	return &PurchaseService{repo: repo}
}

// Settle finalizes the user's one-time purchase and resolves any pending
// referral award atomically. Safe to retry: a settled account fails with
// repository.ErrAlreadyPurchased and is left untouched.
func (s *PurchaseService) Settle(ctx context.Context, userID uuid.UUID) (*repository.SettlementResult, error) {
	return s.repo.SettlePurchase(ctx, userID)
}

// CreditHistory returns the user's credit audit trail, newest first.
func (s *PurchaseService) CreditHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.CreditTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetCreditTransactions(ctx, userID, limit, offset)
}
