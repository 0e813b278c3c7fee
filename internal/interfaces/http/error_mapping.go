package http

import (
	"errors"

	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// MapDomainError traduce un error de dominio a estatus HTTP y cuerpo de error.
// Clasifica con errors.Is para reconocer tanto centinelas directos como errores
// del motor de costeo que los envuelven. El mensaje sale de err.Error() tal
// cual: los textos del motor son contrato con los clientes y llegan al
// formulario sin reescritura.
func MapDomainError(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: dto.CodeValidationError, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict, dto.ErrorResponse{Code: dto.CodeInvalidState, Message: err.Error()}
	case errors.Is(err, domain.ErrOutOfRange):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: dto.CodeOutOfRange, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: dto.CodeNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: dto.CodeForbidden, Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: dto.CodeDuplicate, Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: dto.CodeInvalidState, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: dto.CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: dto.CodeUnauthorized, Message: err.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: dto.CodeInternal, Message: err.Error()}
	}
}

// domainError escribe en la respuesta el mapeo de MapDomainError.
func domainError(c *fiber.Ctx, err error) error {
	status, body := MapDomainError(err)
	return c.Status(status).JSON(body)
}
