package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/beacon-api/internal/application/dto"
	"github.com/jhoicas/beacon-api/internal/domain"
)

// respondDomainError traduce la taxonomía de errores de dominio a HTTP.
//
// Casos no obvios:
//   - El conflicto de ID biométrico siempre es 409, y el cuerpo lleva
//     retryable para que el caller distinga "elegí un ID tomado" (terminal)
//     de "una auto-asignación perdió la carrera" (reintentar la asignación).
//   - El agotamiento del espacio de IDs también es 409 pero terminal: solo un
//     operador liberando un ID lo resuelve.
//   - dispositivo caído / inscripción rechazada son 502: el fallo es del
//     colaborador externo, no de esta API.
func respondDomainError(c *fiber.Ctx, err error) error {
	if conflict, ok := domain.IsBiometricConflict(err); ok {
		retryable := conflict.Retryable
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "BIOMETRIC_ID_CONFLICT",
			Message:   conflict.Error(),
			Retryable: &retryable,
		})
	}

	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrIDSpaceExhausted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ID_SPACE_EXHAUSTED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidBiometricID), errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotReserved):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDeviceUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "DEVICE_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrEnrollmentFailed):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "ENROLLMENT_FAILED", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
