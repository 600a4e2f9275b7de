package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kartikey742/referral-credit-system/internal/model"
	"github.com/kartikey742/referral-credit-system/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")

	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

const (
	minPasswordLength = 6
	minNameLength     = 2
)

// ValidationError reports malformed registration input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type UserService struct {
	repo *repository.Repository
}

func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	ReferralCode string
}

// Register creates a new account with a unique referral code. If a referrer
// code is supplied and resolves to an existing account, the new account is
// linked to it and a pending referral is recorded; an unknown code is
// silently ignored. Registration never touches credit balances.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)

	if err := validateRegistration(email, input.Password, name); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := uniqueReferralCode(ctx, s.repo, name)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		ReferralCode: code,
	}

	var referrer *model.User
	if supplied := strings.ToUpper(strings.TrimSpace(input.ReferralCode)); supplied != "" {
		referrer, err = s.repo.GetUserByReferralCode(ctx, supplied)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		if referrer != nil {
			user.ReferredBy = &referrer.ReferralCode
		}
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if referrer != nil {
		referral := &model.Referral{
			ID:           uuid.New(),
			ReferrerCode: referrer.ReferralCode,
			ReferredCode: user.ReferralCode,
			Status:       model.ReferralStatusPending,
		}
		// The account is already created; a failure to record the referral
		// must not undo the registration.
		if err := s.repo.CreateReferral(ctx, referral); err != nil {
			log.Printf("failed to create referral record for %s: %v", user.ReferralCode, err)
		}
	}

	return user, nil
}

// Login checks the credentials and returns the account. Email and password
// failures are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func validateRegistration(email, password, name string) error {
	if email == "" || password == "" || name == "" {
		return &ValidationError{Field: "all", Message: "email, password and name are required"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "please enter a valid email"}
	}
	if len(password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	if len([]rune(name)) < minNameLength {
		return &ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}
