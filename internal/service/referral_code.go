package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/kartikey742/referral-credit-system/internal/repository"
)

const (
	codePrefixLength = 4
	codeSuffixMin    = 1000
	codeSuffixMax    = 9999

	// maxCodeAttempts bounds the uniqueness retry loop. Hitting it means the
	// code space is effectively exhausted or entropy is broken; treat it as
	// an infrastructure failure, not user input.
	maxCodeAttempts = 10
)

var ErrCodeSpaceExhausted = errors.New("could not generate a unique referral code")

// GenerateReferralCode derives a candidate code from a display name: the first
// letters of the name uppercased (padded with X when too short) followed by a
// random 4-digit block. The generator is stateless and makes no uniqueness
// guarantee; callers must check against the user store and retry.
func GenerateReferralCode(name string) (string, error) {
	prefix := make([]byte, 0, codePrefixLength)
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			prefix = append(prefix, byte(r))
			if len(prefix) == codePrefixLength {
				break
			}
		}
	}
	for len(prefix) < codePrefixLength {
		prefix = append(prefix, 'X')
	}

	n, err := rand.Int(rand.Reader, big.NewInt(codeSuffixMax-codeSuffixMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}

	return fmt.Sprintf("%s%d", prefix, codeSuffixMin+n.Int64()), nil
}

// uniqueReferralCode retries generation until the code is unused, up to a
// hard cap.
func uniqueReferralCode(ctx context.Context, repo *repository.Repository, name string) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateReferralCode(name)
		if err != nil {
			return "", err
		}

		exists, err := repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
