package controller

import (
	"tutorly-be/internal/dto"
	"tutorly-be/internal/pkg/serverutils"
	"tutorly-be/internal/service"
	"tutorly-be/pkg/notes"

	"github.com/gofiber/fiber/v2"
)

type IDemoController interface {
	RegisterRoutes(r fiber.Router)

	CreateRoom(ctx *fiber.Ctx) error
	GetRoom(ctx *fiber.Ctx) error
	DeleteRoom(ctx *fiber.Ctx) error

	Join(ctx *fiber.Ctx) error
	Leave(ctx *fiber.Ctx) error
	ChangeSubject(ctx *fiber.Ctx) error
	ChangeTopic(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	AttachImage(ctx *fiber.Ctx) error
	ToggleMic(ctx *fiber.Ctx) error
	ToggleMute(ctx *fiber.Ctx) error

	GetNotes(ctx *fiber.Ctx) error
	ExportNotes(ctx *fiber.Ctx) error
	EmailNotes(ctx *fiber.Ctx) error

	GetSketch(ctx *fiber.Ctx) error
	SetTool(ctx *fiber.Ctx) error
	Pointer(ctx *fiber.Ctx) error
	ClearSketch(ctx *fiber.Ctx) error
	Calculate(ctx *fiber.Ctx) error
	CalculatorHistory(ctx *fiber.Ctx) error
}

type demoController struct {
	service service.IDemoService
}

func NewDemoController(service service.IDemoService) IDemoController {
	return &demoController{service: service}
}

func (c *demoController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/demo/sessions")
	h.Post("", c.CreateRoom)
	h.Get(":id", c.GetRoom)
	h.Delete(":id", c.DeleteRoom)

	// Call
	h.Post(":id/join", c.Join)
	h.Post(":id/leave", c.Leave)
	h.Put(":id/subject", c.ChangeSubject)
	h.Put(":id/topic", c.ChangeTopic)
	h.Post(":id/messages", c.SendChat)
	h.Post(":id/images", c.AttachImage)
	h.Post(":id/mic", c.ToggleMic)
	h.Post(":id/mute", c.ToggleMute)

	// Notes
	h.Get(":id/notes", c.GetNotes)
	h.Get(":id/notes/export", c.ExportNotes)
	h.Post(":id/notes/email", c.EmailNotes)

	// Sketch & calculator
	h.Get(":id/sketch", c.GetSketch)
	h.Post(":id/sketch/tool", c.SetTool)
	h.Post(":id/sketch/pointer", c.Pointer)
	h.Delete(":id/sketch", c.ClearSketch)
	h.Post(":id/calculator", c.Calculate)
	h.Get(":id/calculator", c.CalculatorHistory)
}

// parse reads and validates a JSON body into req.
func parse(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func (c *demoController) CreateRoom(ctx *fiber.Ctx) error {
	var req dto.CreateRoomRequest
	if len(ctx.Body()) > 0 {
		if err := parse(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.service.CreateRoom(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Demo session created", res))
}

func (c *demoController) GetRoom(ctx *fiber.Ctx) error {
	res, err := c.service.GetRoom(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get demo session", res))
}

func (c *demoController) DeleteRoom(ctx *fiber.Ctx) error {
	if err := c.service.DeleteRoom(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Demo session closed", nil))
}

func (c *demoController) Join(ctx *fiber.Ctx) error {
	res, err := c.service.Join(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Connecting to tutor", res))
}

func (c *demoController) Leave(ctx *fiber.Ctx) error {
	res, err := c.service.Leave(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session ended", res))
}

func (c *demoController) ChangeSubject(ctx *fiber.Ctx) error {
	var req dto.ChangeSubjectRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ChangeSubject(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subject changed", res))
}

func (c *demoController) ChangeTopic(ctx *fiber.Ctx) error {
	var req dto.ChangeTopicRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ChangeTopic(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Topic changed", res))
}

func (c *demoController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SendChat(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}

func (c *demoController) AttachImage(ctx *fiber.Ctx) error {
	var req dto.AttachImageRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.AttachImage(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Image attached", res))
}

func (c *demoController) ToggleMic(ctx *fiber.Ctx) error {
	res, err := c.service.ToggleMic(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Microphone toggled", res))
}

func (c *demoController) ToggleMute(ctx *fiber.Ctx) error {
	res, err := c.service.ToggleMute(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Speaker toggled", res))
}

func (c *demoController) GetNotes(ctx *fiber.Ctx) error {
	res, err := c.service.Notes(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session notes", res))
}

func (c *demoController) ExportNotes(ctx *fiber.Ctx) error {
	format, err := notes.ParseFormat(ctx.Query("format"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.ExportNotes(ctx.Context(), ctx.Params("id"), format)
	if err != nil {
		return err
	}

	ctx.Attachment(res.FileName)
	ctx.Set(fiber.HeaderContentType, res.ContentType)
	return ctx.Send(res.Body)
}

func (c *demoController) EmailNotes(ctx *fiber.Ctx) error {
	var req dto.EmailNotesRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	if err := c.service.EmailNotes(ctx.Context(), ctx.Params("id"), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session notes sent", nil))
}

func (c *demoController) GetSketch(ctx *fiber.Ctx) error {
	res, err := c.service.Sketch(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get sketch", res))
}

func (c *demoController) SetTool(ctx *fiber.Ctx) error {
	var req dto.SetToolRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetTool(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tool selected", res))
}

func (c *demoController) Pointer(ctx *fiber.Ctx) error {
	var req dto.PointerRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Pointer(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pointer applied", res))
}

func (c *demoController) ClearSketch(ctx *fiber.Ctx) error {
	if err := c.service.ClearSketch(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Sketch cleared", nil))
}

func (c *demoController) Calculate(ctx *fiber.Ctx) error {
	var req dto.CalculateRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Calculate(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Expression evaluated", res))
}

func (c *demoController) CalculatorHistory(ctx *fiber.Ctx) error {
	res, err := c.service.CalculatorHistory(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get calculator history", res))
}
