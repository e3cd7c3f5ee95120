package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/usecase"
	"github.com/jhoicas/Inventario-hotel/internal/domain"
)

// localError guarda el error original para que RequestLogger lo registre.
const localError = "request_error"

// respondError traduce errores de dominio a dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	c.Locals(localError, err)
	status, body := mapError(err)
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		ve *domain.ValidationError
		ae *domain.AdapterError
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		details := map[string]any{"field": ve.Field, "reason": ve.Reason}
		if ve.Row > 0 {
			details["row"] = ve.Row
		}
		status, code := fiber.StatusBadRequest, "VALIDATION"
		switch {
		case errors.Is(ve, domain.ErrInsufficientStock):
			status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
		case errors.Is(ve, domain.ErrNotFound):
			status, code = fiber.StatusNotFound, "NOT_FOUND"
		}
		return status, dto.ErrorResponse{Code: code, Message: ve.Error(), Details: details}
	case errors.As(err, &ae):
		details := map[string]any{"op": ae.Op, "step": ae.Step, "completed": ae.Completed}
		if ae.Row > 0 {
			details["row"] = ae.Row
		}
		if len(ae.Pending) > 0 {
			details["pending"] = ae.Pending
		}
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "PERSISTENCE", Message: ae.Error(), Details: details}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrUsernameTaken):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	case errors.Is(err, usecase.ErrAIUnavailable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "AI_UNAVAILABLE", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout, dto.ErrorResponse{Code: "TIMEOUT", Message: "el servicio tardó demasiado; intenta de nuevo"}
	case errors.As(err, &fe):
		return fe.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
}

// ErrorHandler para fiber.Config: errores que los handlers devuelven sin responder.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
