package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kartikey742/referral-credit-system/internal/model"
)

var ErrAlreadyPurchased = errors.New("purchase already settled")

// SettlementResult reports the outcome of a purchase settlement.
type SettlementResult struct {
	UserID          uuid.UUID `json:"user_id"`
	Credits         int       `json:"credits"`
	HasPurchased    bool      `json:"has_purchased"`
	ReferrerAwarded bool      `json:"referrer_awarded"`
}

// SettlePurchase marks the user's one-time purchase as complete and awards
// credits, all inside a single transaction:
//
//  1. Lock the purchaser row. If has_purchased is already set, abort with
//     ErrAlreadyPurchased and no mutation.
//  2. Flip the flag and credit the purchaser the fixed award.
//  3. If the purchaser was referred, lock the referrer row and the matching
//     referral row; if the referral exists and has not been awarded yet,
//     credit the referrer the same award and convert the referral.
//
// A missing referrer, a missing referral row, or an already-awarded referral
// skips step 3 without failing the purchase. Any other error rolls the whole
// transaction back.
func (r *Repository) SettlePurchase(ctx context.Context, userID uuid.UUID) (*SettlementResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user model.User
	err = tx.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1 FOR UPDATE", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}

	if user.HasPurchased {
		return nil, ErrAlreadyPurchased
	}

	newBalance := user.Credits + model.PurchaseAwardCredits
	_, err = tx.ExecContext(ctx,
		"UPDATE users SET credits = $1, has_purchased = TRUE, updated_at = NOW() WHERE id = $2",
		newBalance, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to credit purchaser: %w", err)
	}

	err = insertCreditTransaction(ctx, tx, &model.CreditTransaction{
		ID:            uuid.New(),
		UserID:        user.ID,
		Amount:        model.PurchaseAwardCredits,
		Kind:          model.CreditKindPurchaseAward,
		BalanceBefore: user.Credits,
		BalanceAfter:  newBalance,
	})
	if err != nil {
		return nil, err
	}

	referrerAwarded := false
	if user.ReferredBy != nil {
		referrerAwarded, err = awardReferrer(ctx, tx, &user)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &SettlementResult{
		UserID:          user.ID,
		Credits:         newBalance,
		HasPurchased:    true,
		ReferrerAwarded: referrerAwarded,
	}, nil
}

// awardReferrer credits the purchaser's referrer within the settlement
// transaction. Returns false without error when no award is due.
func awardReferrer(ctx context.Context, tx *sqlx.Tx, purchaser *model.User) (bool, error) {
	var referrer model.User
	err := tx.GetContext(ctx, &referrer,
		"SELECT * FROM users WHERE referral_code = $1 FOR UPDATE", *purchaser.ReferredBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock referrer: %w", err)
	}

	var referral model.Referral
	err = tx.GetContext(ctx, &referral,
		"SELECT * FROM referrals WHERE referrer_code = $1 AND referred_code = $2 FOR UPDATE",
		referrer.ReferralCode, purchaser.ReferralCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock referral: %w", err)
	}

	if referral.CreditsAwarded {
		return false, nil
	}

	newBalance := referrer.Credits + model.PurchaseAwardCredits
	_, err = tx.ExecContext(ctx,
		"UPDATE users SET credits = $1, updated_at = NOW() WHERE id = $2",
		newBalance, referrer.ID)
	if err != nil {
		return false, fmt.Errorf("failed to credit referrer: %w", err)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE referrals
		SET status = $1, credits_awarded = TRUE, purchase_date = $2, updated_at = NOW()
		WHERE id = $3`,
		model.ReferralStatusConverted, now, referral.ID)
	if err != nil {
		return false, fmt.Errorf("failed to convert referral: %w", err)
	}

	err = insertCreditTransaction(ctx, tx, &model.CreditTransaction{
		ID:            uuid.New(),
		UserID:        referrer.ID,
		Amount:        model.PurchaseAwardCredits,
		Kind:          model.CreditKindReferralAward,
		ReferralID:    &referral.ID,
		BalanceBefore: referrer.Credits,
		BalanceAfter:  newBalance,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func insertCreditTransaction(ctx context.Context, tx *sqlx.Tx, ct *model.CreditTransaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount, kind, referral_id, balance_before, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ct.ID, ct.UserID, ct.Amount, ct.Kind, ct.ReferralID, ct.BalanceBefore, ct.BalanceAfter)
	if err != nil {
		return fmt.Errorf("failed to record credit transaction: %w", err)
	}
	return nil
}
