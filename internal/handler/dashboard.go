package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kartikey742/referral-credit-system/internal/middleware"
	"github.com/kartikey742/referral-credit-system/internal/repository"
)

// GetDashboard returns the composite referral dashboard for the
// authenticated user.
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	dashboard, err := h.referralSvc.GetDashboard(c.Context(), userID, h.cfg.Server.AppBaseURL)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load dashboard",
		})
	}

	return c.JSON(fiber.Map{
		"data": dashboard,
	})
}
