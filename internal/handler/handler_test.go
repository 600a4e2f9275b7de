package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartikey742/referral-credit-system/internal/auth"
	"github.com/kartikey742/referral-credit-system/internal/config"
	"github.com/kartikey742/referral-credit-system/internal/middleware"
	"github.com/kartikey742/referral-credit-system/internal/repository"
	"github.com/kartikey742/referral-credit-system/internal/service"
)

var userColumns = []string{
	"id", "email", "password_hash", "name", "referral_code", "referred_by",
	"credits", "has_purchased", "created_at", "updated_at",
}

func testApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock, *config.Config) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	repo := repository.NewWithDB(sqlx.NewDb(mockDB, "sqlmock"))

	cfg := &config.Config{
		Server: config.ServerConfig{AppBaseURL: "https://app.example.com"},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
	}

	h := New(cfg,
		service.NewUserService(repo),
		service.NewPurchaseService(repo),
		service.NewReferralService(repo),
	)

	app := fiber.New()
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/auth/register", h.Register)
	api.Post("/auth/login", h.Login)

	user := api.Group("/user", middleware.BearerAuth(cfg))
	user.Get("/me", h.GetMe)
	user.Get("/dashboard", h.GetDashboard)
	user.Post("/purchase", h.Purchase)
	user.Get("/credits", h.GetCreditHistory)

	return app, mock, cfg
}

func TestHealth(t *testing.T) {
	app, _, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBearerAuth(t *testing.T) {
	t.Run("rejects a missing token", func(t *testing.T) {
		app, _, _ := testApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/user/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		app, _, _ := testApp(t)

		req := httptest.NewRequest("GET", "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer nonsense")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("accepts a valid token", func(t *testing.T) {
		app, mock, cfg := testApp(t)
		userID := uuid.New()
		now := time.Now()

		token, err := auth.GenerateToken(cfg, userID)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT \* FROM users WHERE id = \$1`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				userID.String(), "john@example.com", "hash", "John", "JOHN1234", nil,
				0, false, now, now))

		req := httptest.NewRequest("GET", "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestPurchaseEndpoint(t *testing.T) {
	t.Run("settles and reports the referrer award", func(t *testing.T) {
		app, mock, cfg := testApp(t)
		userID := uuid.New()
		referrerID := uuid.New()
		referralID := uuid.New()
		now := time.Now()

		token, err := auth.GenerateToken(cfg, userID)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM users WHERE id = \$1 FOR UPDATE`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				userID.String(), "bob@example.com", "hash", "Bob", "BOBX5678", "ALIC1234",
				0, false, now, now))
		mock.ExpectExec(`UPDATE users SET credits = \$1, has_purchased = TRUE`).
			WithArgs(2, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO credit_transactions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM users WHERE referral_code = \$1 FOR UPDATE`).
			WithArgs("ALIC1234").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				referrerID.String(), "alice@example.com", "hash", "Alice", "ALIC1234", nil,
				0, false, now, now))
		mock.ExpectQuery(`SELECT \* FROM referrals WHERE referrer_code = \$1 AND referred_code = \$2 FOR UPDATE`).
			WithArgs("ALIC1234", "BOBX5678").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "referrer_code", "referred_code", "status", "credits_awarded",
				"purchase_date", "created_at", "updated_at",
			}).AddRow(referralID.String(), "ALIC1234", "BOBX5678", "pending", false, nil, now, now))
		mock.ExpectExec(`UPDATE users SET credits = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs(2, referrerID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE referrals SET status = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO credit_transactions`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		req := httptest.NewRequest("POST", "/api/user/purchase", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var payload struct {
			ReferrerAwarded bool `json:"referrer_awarded"`
			User            struct {
				Credits      int  `json:"credits"`
				HasPurchased bool `json:"has_purchased"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.True(t, payload.ReferrerAwarded)
		assert.Equal(t, 2, payload.User.Credits)
		assert.True(t, payload.User.HasPurchased)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second settlement attempt conflicts", func(t *testing.T) {
		app, mock, cfg := testApp(t)
		userID := uuid.New()
		now := time.Now()

		token, err := auth.GenerateToken(cfg, userID)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM users WHERE id = \$1 FOR UPDATE`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				userID.String(), "bob@example.com", "hash", "Bob", "BOBX5678", nil,
				2, true, now, now))
		mock.ExpectRollback()

		req := httptest.NewRequest("POST", "/api/user/purchase", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
