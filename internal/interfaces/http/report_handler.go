package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/beacon-api/internal/application/dto"
	"github.com/jhoicas/beacon-api/internal/application/usecase"
	"github.com/jhoicas/beacon-api/internal/infrastructure/pdf"
)

// ReportHandler genera reportes descargables del estado de inscripción.
type ReportHandler struct {
	dashboardUC *usecase.DashboardUseCase
	employeeUC  *usecase.EmployeeUseCase
	generator   *pdf.RosterGenerator
}

func NewReportHandler(dashboardUC *usecase.DashboardUseCase, employeeUC *usecase.EmployeeUseCase, generator *pdf.RosterGenerator) *ReportHandler {
	return &ReportHandler{dashboardUC: dashboardUC, employeeUC: employeeUC, generator: generator}
}

// EnrollmentRoster godoc
// @Summary      Descargar el censo de inscripción en PDF
// @Description  Resumen de cobertura más el listado completo de empleados
// @Description  con su estado biométrico.
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/hr/reports/enrollment.pdf [get]
func (h *ReportHandler) EnrollmentRoster(c *fiber.Ctx) error {
	summary, err := h.dashboardUC.GetSummary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}

	employees, err := h.employeeUC.List(c.Context(), "", "")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}

	generatedAt := time.Now().Format("2006-01-02 15:04")
	pdfBytes, err := h.generator.GenerateEnrollmentRoster(summary, employees, generatedAt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "PDF_GENERATION", Message: fmt.Sprintf("generación fallida: %v", err),
		})
	}

	filename := fmt.Sprintf("censo_inscripcion_%s.pdf", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
