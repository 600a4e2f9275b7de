package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kartikey742/referral-credit-system/internal/middleware"
	"github.com/kartikey742/referral-credit-system/internal/repository"
)

func (h *Handler) GetMe(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	user, err := h.userService.GetUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch user",
		})
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":            user.ID,
			"email":         user.Email,
			"name":          user.Name,
			"referral_code": user.ReferralCode,
			"referred_by":   user.ReferredBy,
			"credits":       user.Credits,
			"has_purchased": user.HasPurchased,
			"created_at":    user.CreatedAt,
		},
	})
}

// Purchase settles the authenticated user's one-time purchase.
func (h *Handler) Purchase(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	result, err := h.purchaseSvc.Settle(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyPurchased):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "you have already made a purchase, credits can only be earned once",
			})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "purchase failed, please try again",
			})
		}
	}

	message := "Purchase successful! You earned 2 credits."
	if result.ReferrerAwarded {
		message = "Purchase successful! You and your referrer earned 2 credits each."
	}

	return c.JSON(fiber.Map{
		"message": message,
		"user": fiber.Map{
			"id":            result.UserID,
			"credits":       result.Credits,
			"has_purchased": result.HasPurchased,
		},
		"referrer_awarded": result.ReferrerAwarded,
	})
}

// GetCreditHistory returns the authenticated user's credit audit trail.
func (h *Handler) GetCreditHistory(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	transactions, err := h.purchaseSvc.CreditHistory(c.Context(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch credit history",
		})
	}

	return c.JSON(fiber.Map{
		"transactions": transactions,
	})
}
