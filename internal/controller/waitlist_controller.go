package controller

import (
	"tutorly-be/internal/dto"
	"tutorly-be/internal/pkg/serverutils"
	"tutorly-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWaitlistController interface {
	RegisterRoutes(r fiber.Router)
	Join(ctx *fiber.Ctx) error
}

type waitlistController struct {
	service service.IWaitlistService
}

func NewWaitlistController(service service.IWaitlistService) IWaitlistController {
	return &waitlistController{service: service}
}

func (c *waitlistController) RegisterRoutes(r fiber.Router) {
	r.Post("/waitlist", c.Join)
}

// Join answers with a bare {"message"} body, which is what the signup form
// reads on both success and failure.
func (c *waitlistController) Join(ctx *fiber.Ctx) error {
	var req dto.JoinWaitlistRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Join(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.JoinWaitlistResponse{
			Message: "Error joining the waitlist.",
		})
	}
	return ctx.JSON(res)
}
