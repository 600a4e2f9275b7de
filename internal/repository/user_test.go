package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kartikey742/referral-credit-system/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	t.Run("returns the user", func(t *testing.T) {
		repo, mock := newTestRepository(t)
		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM users WHERE id = \$1`).
			WithArgs(userID).
			WillReturnRows(userRow(userID, "JOHN1234", nil, 0, false))

		user, err := repo.GetUser(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "JOHN1234", user.ReferralCode)
		assert.Nil(t, user.ReferredBy)
	})

	t.Run("maps no rows to ErrUserNotFound", func(t *testing.T) {
		repo, mock := newTestRepository(t)
		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM users WHERE id = \$1`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userColumns))

		user, err := repo.GetUser(context.Background(), userID)

		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestReferralCodeExists(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE referral_code = \$1\)`).
		WithArgs("JOHN1234").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ReferralCodeExists(context.Background(), "JOHN1234")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateUser(t *testing.T) {
	t.Run("populates store defaults on the model", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		user := &model.User{
			ID:           uuid.New(),
			Email:        "john@example.com",
			PasswordHash: "$2a$10$hash",
			Name:         "John",
			ReferralCode: "JOHN1234",
		}

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.ID, user.Email, user.PasswordHash, user.Name, user.ReferralCode, nil).
			WillReturnRows(sqlmock.NewRows([]string{"credits", "has_purchased", "created_at", "updated_at"}).
				AddRow(0, false, time.Now(), time.Now()))

		err := repo.CreateUser(context.Background(), user)

		require.NoError(t, err)
		assert.Equal(t, 0, user.Credits)
		assert.False(t, user.HasPurchased)
	})

	t.Run("maps a unique violation to ErrEmailTaken", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		user := &model.User{
			ID:           uuid.New(),
			Email:        "john@example.com",
			PasswordHash: "$2a$10$hash",
			Name:         "John",
			ReferralCode: "JOHN1234",
		}

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err := repo.CreateUser(context.Background(), user)

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}
