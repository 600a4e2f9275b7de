package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kartikey742/referral-credit-system/internal/model"
	"github.com/kartikey742/referral-credit-system/internal/repository"
)

type ReferralService struct {
	repo *repository.Repository
}

func NewReferralService(repo *repository.Repository) *ReferralService {
	return &ReferralService{repo: repo}
}

// ReferralDetail is one dashboard row: a referral plus a snapshot of the
// referred account. ReferredUser is nil when that account cannot be resolved.
type ReferralDetail struct {
	ID             uuid.UUID            `json:"id"`
	ReferredUser   *model.UserProfile   `json:"referred_user"`
	Status         model.ReferralStatus `json:"status"`
	CreditsAwarded bool                 `json:"credits_awarded"`
	CreatedAt      time.Time            `json:"created_at"`
	PurchaseDate   *time.Time           `json:"purchase_date,omitempty"`
}

type DashboardStats struct {
	TotalCredits       int `json:"total_credits"`
	TotalReferredUsers int `json:"total_referred_users"`
	ConvertedUsers     int `json:"converted_users"`
	PendingUsers       int `json:"pending_users"`
}

type DashboardUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	ReferralCode string `json:"referral_code"`
	Credits      int    `json:"credits"`
	HasPurchased bool   `json:"has_purchased"`
}

type Dashboard struct {
	User         DashboardUser    `json:"user"`
	ReferralLink string           `json:"referral_link"`
	Stats        DashboardStats   `json:"stats"`
	Referrals    []ReferralDetail `json:"referrals"`
}

// GetReferralLink builds the public invitation URL for a user's code.
func GetReferralLink(baseURL, code string) string {
	return baseURL + "/register?ref=" + code
}

// GetDashboard assembles the read-only dashboard projection: the account,
// its referrals newest-first with referred-user snapshots, and summary
// stats. It performs no mutation.
func (s *ReferralService) GetDashboard(ctx context.Context, userID uuid.UUID, baseURL string) (*Dashboard, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	referrals, err := s.repo.GetReferralsByReferrer(ctx, user.ReferralCode)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.GetReferralStats(ctx, user.ReferralCode)
	if err != nil {
		return nil, err
	}

	details := make([]ReferralDetail, 0, len(referrals))
	for _, ref := range referrals {
		detail := ReferralDetail{
			ID:             ref.ID,
			Status:         ref.Status,
			CreditsAwarded: ref.CreditsAwarded,
			CreatedAt:      ref.CreatedAt,
			PurchaseDate:   ref.PurchaseDate,
		}

		// A missing referred account leaves the snapshot nil rather than
		// failing the whole aggregation.
		referred, err := s.repo.GetUserByReferralCode(ctx, ref.ReferredCode)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		if referred != nil {
			detail.ReferredUser = referred.Profile()
		}

		details = append(details, detail)
	}

	return &Dashboard{
		User: DashboardUser{
			Name:         user.Name,
			Email:        user.Email,
			ReferralCode: user.ReferralCode,
			Credits:      user.Credits,
			HasPurchased: user.HasPurchased,
		},
		ReferralLink: GetReferralLink(baseURL, user.ReferralCode),
		Stats: DashboardStats{
			TotalCredits:       user.Credits,
			TotalReferredUsers: stats.TotalReferred,
			ConvertedUsers:     stats.Converted,
			PendingUsers:       stats.Pending,
		},
		Referrals: details,
	}, nil
}
