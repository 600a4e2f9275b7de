package model

import (
	"time"

	"github.com/google/uuid"
)

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusConverted ReferralStatus = "converted"
)

// Referral records one referrer→referred relationship. The pair
// (referrer_code, referred_code) is unique; referral codes, not account ids,
// are the join key between users and referrals.
type Referral struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	ReferrerCode   string         `json:"referrer_code" db:"referrer_code"`
	ReferredCode   string         `json:"referred_code" db:"referred_code"`
	Status         ReferralStatus `json:"status" db:"status"`
	CreditsAwarded bool           `json:"credits_awarded" db:"credits_awarded"`
	PurchaseDate   *time.Time     `json:"purchase_date,omitempty" db:"purchase_date"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

type ReferralStats struct {
	TotalReferred int `json:"total_referred" db:"total_referred"`
	Converted     int `json:"converted" db:"converted"`
	Pending       int `json:"pending" db:"pending"`
}
