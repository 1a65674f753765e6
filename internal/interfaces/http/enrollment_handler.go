package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/beacon-api/internal/application/biometric"
	"github.com/jhoicas/beacon-api/internal/application/dto"
)

// EnrollmentHandler expone el motor de inscripción biométrica (solo HR/IT).
type EnrollmentHandler struct {
	uc *biometric.UseCase
}

// NewEnrollmentHandler construye el handler de inscripción.
func NewEnrollmentHandler(uc *biometric.UseCase) *EnrollmentHandler {
	return &EnrollmentHandler{uc: uc}
}

// Enroll godoc
// @Summary      Asignar ID biométrico e inscribir huella en el dispositivo
// @Description  Si el dispositivo no devuelve template, la respuesta lleva
// @Description  needs_manual_enrollment=true con instrucciones; el ID queda reservado.
// @Tags         biometric
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del empleado"
// @Param        body  body  dto.EnrollRequest  true  "device_ip y biometric_id opcional"
// @Success      200   {object}  dto.EnrollResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/hr/employees/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	var in dto.EnrollRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.DeviceIP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "device_ip es requerido"})
	}
	out, err := h.uc.Enroll(c.Context(), c.Params("id"), in.DeviceIP, in.BiometricID, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar inscripción pendiente y recuperar template
// @Description  Idempotente: con success=false el empleado queda en ID_RESERVED
// @Description  sin efectos secundarios y se puede reintentar.
// @Tags         biometric
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyRequest  true  "biometric_id y device_ip"
// @Success      200   {object}  dto.VerifyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/hr/biometric/verify [post]
func (h *EnrollmentHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.BiometricID == 0 || in.DeviceIP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "biometric_id y device_ip son requeridos"})
	}
	out, err := h.uc.Verify(c.Context(), in.BiometricID, in.DeviceIP, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Link godoc
// @Summary      Vincular empleado a un usuario existente del dispositivo
// @Description  Override administrativo: marca inscrito sin recuperar template.
// @Tags         biometric
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del empleado"
// @Param        body  body  dto.LinkRequest  true  "uid del dispositivo"
// @Success      200   {object}  dto.EmployeeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/hr/employees/{id}/link [post]
func (h *EnrollmentHandler) Link(c *fiber.Ctx) error {
	var in dto.LinkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	employee, err := h.uc.Link(c.Context(), c.Params("id"), in.UID, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"employee": employee})
}

// SyncFingerprint godoc
// @Summary      Recuperar el template de un empleado ya vinculado
// @Tags         biometric
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del empleado"
// @Param        body  body  dto.SyncFingerprintRequest  true  "device_ip"
// @Success      200   {object}  dto.EnrollResponse
// @Router       /api/hr/employees/{id}/sync [post]
func (h *EnrollmentHandler) SyncFingerprint(c *fiber.Ctx) error {
	var in dto.SyncFingerprintRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.DeviceIP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "device_ip es requerido"})
	}
	out, err := h.uc.SyncFingerprint(c.Context(), c.Params("id"), in.DeviceIP, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Unlink godoc
// @Summary      Eliminar la vinculación biométrica del empleado (solo almacén)
// @Description  Contraparte explícita del borrado en dispositivo, que no cascadea.
// @Tags         biometric
// @Produce      json
// @Param        id  path  string  true  "ID del empleado"
// @Success      200  {object}  dto.OKResponse
// @Router       /api/hr/employees/{id}/biometric [delete]
func (h *EnrollmentHandler) Unlink(c *fiber.Ctx) error {
	if err := h.uc.Unlink(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.OKResponse{Success: true, Message: "vinculación biométrica eliminada"})
}
