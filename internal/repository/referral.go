package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kartikey742/referral-credit-system/internal/model"
)

// CreateReferral records a new pending referral relationship. A duplicate
// (referrer_code, referred_code) pair is a no-op: registration must not fail
// because the relationship already exists.
func (r *Repository) CreateReferral(ctx context.Context, referral *model.Referral) error {
	query := `
		INSERT INTO referrals (id, referrer_code, referred_code, status, credits_awarded)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (referrer_code, referred_code) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		referral.ID,
		referral.ReferrerCode,
		referral.ReferredCode,
		referral.Status,
		referral.CreditsAwarded,
	).Scan(&referral.CreatedAt, &referral.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict: the row already existed and nothing was inserted.
		return nil
	}
	return err
}

func (r *Repository) GetReferralsByReferrer(ctx context.Context, referrerCode string) ([]model.Referral, error) {
	var referrals []model.Referral
	query := `
		SELECT * FROM referrals
		WHERE referrer_code = $1
		ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &referrals, query, referrerCode)
	return referrals, err
}

func (r *Repository) GetReferralStats(ctx context.Context, referrerCode string) (*model.ReferralStats, error) {
	stats := &model.ReferralStats{}
	query := `
		SELECT
			COUNT(*) AS total_referred,
			COUNT(*) FILTER (WHERE status = 'converted') AS converted,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending
		FROM referrals
		WHERE referrer_code = $1`
	err := r.db.GetContext(ctx, stats, query, referrerCode)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
