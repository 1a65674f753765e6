package dto

import "github.com/shopspring/decimal"

// RoleCoverageDTO cobertura de inscripción de un rol.
type RoleCoverageDTO struct {
	Role     string          `json:"role"`
	Total    int64           `json:"total"`
	Enrolled int64           `json:"enrolled"`
	Rate     decimal.Decimal `json:"rate"` // porcentaje 0–100
}

// DashboardDTO respuesta de GET /api/hr/dashboard: estado global de la
// inscripción biométrica de la plantilla.
type DashboardDTO struct {
	TotalEmployees  int64             `json:"total_employees"`
	Enrolled        int64             `json:"enrolled"`
	Reserved        int64             `json:"reserved"` // ID asignado, huella pendiente
	Unassigned      int64             `json:"unassigned"`
	MissingTemplate int64             `json:"missing_template"` // vinculados sin template (pendientes de sync)
	EnrollmentRate  decimal.Decimal   `json:"enrollment_rate"`  // porcentaje 0–100
	ByRole          []RoleCoverageDTO `json:"by_role"`
}
