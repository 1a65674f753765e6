package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/beacon-api/internal/application/dto"
	"github.com/jhoicas/beacon-api/internal/application/usecase"
)

// EmployeeHandler CRUD de empleados (solo HR/IT).
type EmployeeHandler struct {
	uc *usecase.EmployeeUseCase
}

// NewEmployeeHandler construye el handler de empleados.
func NewEmployeeHandler(uc *usecase.EmployeeUseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

// List godoc
// @Summary      Listar empleados
// @Tags         employees
// @Produce      json
// @Param        search  query  string  false  "filtro por nombre o email"
// @Param        role    query  string  false  "EMPLOYEE | HR | IT"
// @Success      200  {array}  dto.EmployeeResponse
// @Router       /api/hr/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.uc.List(c.Context(), c.Query("search"), c.Query("role"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"employees": employees})
}

// Create godoc
// @Summary      Crear empleado
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEmployeeRequest  true  "datos del empleado"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/hr/employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email, password y name son requeridos"})
	}
	if len(in.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "password debe tener al menos 6 caracteres"})
	}
	employee, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"employee": employee})
}

// GetByID godoc
// @Summary      Obtener empleado
// @Tags         employees
// @Produce      json
// @Param        id  path  string  true  "ID del empleado"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/hr/employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *fiber.Ctx) error {
	employee, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"employee": employee})
}

// Update godoc
// @Summary      Actualizar perfil de empleado
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del empleado"
// @Param        body  body  dto.UpdateEmployeeRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.EmployeeResponse
// @Router       /api/hr/employees/{id} [put]
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	employee, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"employee": employee})
}

// EnrollmentStatus godoc
// @Summary      Estado de inscripción de un empleado
// @Tags         employees
// @Produce      json
// @Param        id  path  string  true  "ID del empleado"
// @Success      200  {object}  dto.EmployeeResponse
// @Router       /api/hr/employees/{id}/enrollment [get]
func (h *EmployeeHandler) EnrollmentStatus(c *fiber.Ctx) error {
	employee, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"employee": employee})
}

// SyncUsers godoc
// @Summary      Feed de empleados inscritos para nodos edge
// @Tags         edge
// @Produce      json
// @Success      200  {object}  dto.SyncUsersResponse
// @Router       /api/edge/sync-users [get]
func (h *EmployeeHandler) SyncUsers(c *fiber.Ctx) error {
	out, err := h.uc.ListEnrolledForSync(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
