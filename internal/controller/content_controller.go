package controller

import (
	"tutorly-be/internal/pkg/serverutils"
	"tutorly-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContentController interface {
	RegisterRoutes(r fiber.Router)
	GetPages(ctx *fiber.Ctx) error
	GetPage(ctx *fiber.Ctx) error
	GetPosts(ctx *fiber.Ctx) error
	GetPost(ctx *fiber.Ctx) error
	GetFAQs(ctx *fiber.Ctx) error
	GetTeam(ctx *fiber.Ctx) error
	GetTutors(ctx *fiber.Ctx) error
}

type contentController struct {
	service service.IContentService
}

func NewContentController(service service.IContentService) IContentController {
	return &contentController{service: service}
}

func (c *contentController) RegisterRoutes(r fiber.Router) {
	r.Get("/pages", c.GetPages)
	r.Get("/pages/:slug", c.GetPage)
	r.Get("/posts", c.GetPosts)
	r.Get("/posts/:slug", c.GetPost)
	r.Get("/faqs", c.GetFAQs)
	r.Get("/team", c.GetTeam)
	r.Get("/tutors", c.GetTutors)
}

func (c *contentController) GetPages(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get pages", c.service.Pages(ctx.Context())))
}

func (c *contentController) GetPage(ctx *fiber.Ctx) error {
	res, err := c.service.Page(ctx.Context(), ctx.Params("slug"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get page", res))
}

func (c *contentController) GetPosts(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get posts", c.service.Posts(ctx.Context())))
}

func (c *contentController) GetPost(ctx *fiber.Ctx) error {
	res, err := c.service.Post(ctx.Context(), ctx.Params("slug"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get post", res))
}

func (c *contentController) GetFAQs(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get faqs", c.service.FAQs(ctx.Context())))
}

func (c *contentController) GetTeam(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get team", c.service.Team(ctx.Context())))
}

func (c *contentController) GetTutors(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get tutors", c.service.Tutors(ctx.Context())))
}
