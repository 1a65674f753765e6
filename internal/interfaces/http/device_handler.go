package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/beacon-api/internal/application/biometric"
	"github.com/jhoicas/beacon-api/internal/application/dto"
)

// DeviceHandler expone el inventario de dispositivos y sus usuarios.
type DeviceHandler struct {
	uc *biometric.UseCase
}

func NewDeviceHandler(uc *biometric.UseCase) *DeviceHandler {
	return &DeviceHandler{uc: uc}
}

// ListDevices godoc
// @Summary      Listar dispositivos biométricos descubiertos
// @Description  Si el servicio de dispositivos no responde, devuelve el
// @Description  dispositivo por defecto con status desconocido.
// @Tags         devices
// @Produce      json
// @Success      200  {object}  dto.DevicesResponse
// @Router       /api/hr/biometric/devices [get]
func (h *DeviceHandler) ListDevices(c *fiber.Ctx) error {
	out, err := h.uc.ListDevices(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// ListUsers godoc
// @Summary      Listar usuarios registrados en un dispositivo
// @Description  Cada usuario se anota con el empleado vinculado, si existe.
// @Tags         devices
// @Produce      json
// @Param        ip  path  string  true  "IP del dispositivo"
// @Success      200  {object}  dto.DeviceUsersResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/hr/biometric/devices/{ip}/users [get]
func (h *DeviceHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.uc.ListDeviceUsers(c.Context(), c.Params("ip"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// DeleteUser godoc
// @Summary      Borrar un usuario del dispositivo
// @Description  No toca el almacén central: la vinculación del empleado se
// @Description  elimina aparte con DELETE /employees/{id}/biometric.
// @Tags         devices
// @Produce      json
// @Param        ip   path  string  true  "IP del dispositivo"
// @Param        uid  path  int     true  "UID en el dispositivo"
// @Success      200  {object}  dto.OKResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/hr/biometric/devices/{ip}/users/{uid} [delete]
func (h *DeviceHandler) DeleteUser(c *fiber.Ctx) error {
	uid, err := strconv.Atoi(c.Params("uid"))
	if err != nil || uid <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "uid inválido"})
	}
	if err := h.uc.DeleteDeviceUser(c.Context(), c.Params("ip"), uid); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.OKResponse{Success: true, Message: "usuario eliminado del dispositivo"})
}
