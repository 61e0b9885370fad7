package controller

import (
	"ai-studynotes-be/internal/dto"
	"ai-studynotes-be/internal/pkg/serverutils"
	"ai-studynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IStudyController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Current(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Flashcard(ctx *fiber.Ctx) error
	Next(ctx *fiber.Ctx) error
	Previous(ctx *fiber.Ctx) error
	Narration(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	HistoryItem(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
}

type studyController struct {
	service   service.IStudyService
	jwtSecret string
}

func NewStudyController(service service.IStudyService, jwtSecret string) IStudyController {
	return &studyController{service: service, jwtSecret: jwtSecret}
}

func (c *studyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/study/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("", c.Current)
	h.Delete("", c.Clear)
	h.Post("generate", c.Generate)
	h.Get("flashcard", c.Flashcard)
	h.Post("flashcard/next", c.Next)
	h.Post("flashcard/previous", c.Previous)
	h.Get("narration", c.Narration)
	h.Get("history", c.History)
	h.Delete("history", c.ClearHistory)
	h.Get("history/:id", c.HistoryItem)
}

func (c *studyController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateStudySetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	req.Normalize()
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.UserContext(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate study set", res))
}

func (c *studyController) Current(ctx *fiber.Ctx) error {
	res, err := c.service.Current(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get study set", res))
}

func (c *studyController) Clear(ctx *fiber.Ctx) error {
	if err := c.service.Clear(ctx.UserContext(), serverutils.SessionID(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear study set", nil))
}

func (c *studyController) Flashcard(ctx *fiber.Ctx) error {
	res, err := c.service.Flashcard(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get flashcard", res))
}

func (c *studyController) Next(ctx *fiber.Ctx) error {
	res, err := c.service.Next(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success next flashcard", res))
}

func (c *studyController) Previous(ctx *fiber.Ctx) error {
	res, err := c.service.Previous(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success previous flashcard", res))
}

func (c *studyController) Narration(ctx *fiber.Ctx) error {
	audio, err := c.service.Narration(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, audio.MimeType)
	return ctx.Send(audio.Bytes)
}

func (c *studyController) History(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)

	res, err := c.service.History(ctx.UserContext(), serverutils.SessionID(ctx), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get study set history", res))
}

func (c *studyController) HistoryItem(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid study set id")
	}

	res, err := c.service.HistoryItem(ctx.UserContext(), serverutils.SessionID(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get study set", res))
}

func (c *studyController) ClearHistory(ctx *fiber.Ctx) error {
	if err := c.service.ClearHistory(ctx.UserContext(), serverutils.SessionID(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear study set history", nil))
}
