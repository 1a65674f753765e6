package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/beacon-api/internal/application/auth"
	"github.com/jhoicas/beacon-api/internal/application/biometric"
	"github.com/jhoicas/beacon-api/internal/application/usecase"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
	"github.com/jhoicas/beacon-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	EmployeeUC  *usecase.EmployeeUseCase
	DashboardUC *usecase.DashboardUseCase
	BiometricUC *biometric.UseCase
	PDFRoster   *pdf.RosterGenerator
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas de RRHH (requieren Bearer Token con rol HR o IT)
	hr := api.Group("/hr", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleHR, entity.RoleIT))

	// Employees
	employees := hr.Group("/employees")
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Get("/", employeeHandler.List)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/:id", employeeHandler.GetByID)
	employees.Put("/:id", employeeHandler.Update)
	employees.Get("/:id/enrollment", employeeHandler.EnrollmentStatus)

	// Inscripción biométrica
	enrollmentHandler := NewEnrollmentHandler(deps.BiometricUC)
	employees.Post("/:id/enroll", enrollmentHandler.Enroll)
	employees.Post("/:id/link", enrollmentHandler.Link)
	employees.Post("/:id/sync", enrollmentHandler.SyncFingerprint)
	employees.Delete("/:id/biometric", enrollmentHandler.Unlink)

	biometricGroup := hr.Group("/biometric")
	biometricGroup.Post("/verify", enrollmentHandler.Verify)

	// Dispositivos
	deviceHandler := NewDeviceHandler(deps.BiometricUC)
	biometricGroup.Get("/devices", deviceHandler.ListDevices)
	biometricGroup.Get("/devices/:ip/users", deviceHandler.ListUsers)
	biometricGroup.Delete("/devices/:ip/users/:uid", deviceHandler.DeleteUser)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	hr.Get("/dashboard", dashboardHandler.GetSummary)

	reportHandler := NewReportHandler(deps.DashboardUC, deps.EmployeeUC, deps.PDFRoster)
	hr.Get("/reports/enrollment.pdf", reportHandler.EnrollmentRoster)

	// Feed de sincronización para el servicio de borde (requiere token)
	edge := api.Group("/edge", AuthMiddleware(deps.JWTSecret))
	edge.Get("/sync-users", employeeHandler.SyncUsers)
}
