package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kartikey742/referral-credit-system/internal/config"
	"github.com/kartikey742/referral-credit-system/internal/service"
)

type Handler struct {
	cfg         *config.Config
	userService *service.UserService
	purchaseSvc *service.PurchaseService
	referralSvc *service.ReferralService
}

func New(
	cfg *config.Config,
	userService *service.UserService,
	purchaseSvc *service.PurchaseService,
	referralSvc *service.ReferralService,
) *Handler {
	return &Handler{
		cfg:         cfg,
		userService: userService,
		purchaseSvc: purchaseSvc,
		referralSvc: referralSvc,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
