package model

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseAwardCredits is granted to the purchaser on their one-time purchase,
// and to their referrer when the matching referral converts.
const PurchaseAwardCredits = 2

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	ReferralCode string    `json:"referral_code" db:"referral_code"`
	ReferredBy   *string   `json:"referred_by,omitempty" db:"referred_by"`
	Credits      int       `json:"credits" db:"credits"`
	HasPurchased bool      `json:"has_purchased" db:"has_purchased"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserProfile is the public snapshot of an account shown to other users,
// e.g. on a referrer's dashboard.
type UserProfile struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		Name:     u.Name,
		Email:    u.Email,
		JoinedAt: u.CreatedAt,
	}
}
