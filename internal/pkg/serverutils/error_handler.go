package serverutils

import (
	"errors"

	"ai-studynotes-be/pkg/study"

	"github.com/gofiber/fiber/v2"
)

type StageFailure struct {
	Stage string `json:"stage"`
	Kind  string `json:"kind"`
}

// StatusFor maps an error returned by a handler to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	var ve *ValidationError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.Is(err, study.ErrUnsupportedSource):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, study.ErrNoStudySet):
		return fiber.StatusNotFound
	case errors.Is(err, study.ErrConfiguration):
		return fiber.StatusServiceUnavailable
	}
	if _, ok := study.StageOf(err); ok {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		if stage, ok := study.StageOf(err); ok {
			failure := StageFailure{Stage: string(stage)}
			if kind := study.KindOf(err); kind != nil {
				failure.Kind = kind.Error()
			}
			return ctx.Status(code).JSON(ErrorResponseWithData(code, err.Error(), failure))
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			return ctx.Status(code).JSON(ErrorResponseWithData(code, ve.Error(), ve.Fields))
		}

		message := err.Error()
		if code == fiber.StatusInternalServerError {
			message = "Internal server error"
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
