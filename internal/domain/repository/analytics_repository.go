package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// RoleCoverage cobertura de inscripción por rol.
type RoleCoverage struct {
	Role     string
	Total    int64
	Enrolled int64
	Rate     decimal.Decimal // enrolled / total * 100, 0 si total = 0
}

// EnrollmentStats agregados para el dashboard de RR.HH.
type EnrollmentStats struct {
	TotalEmployees int64
	Enrolled       int64 // fingerprint_enrolled = true
	Reserved       int64 // biometric_id asignado pero sin inscribir
	Unassigned     int64
	MissingTemplate int64 // enrolled pero con template NULL (vinculados pendientes de sync)
	Rate           decimal.Decimal
	ByRole         []RoleCoverage
}

// AnalyticsRepository consultas de solo lectura para el dashboard de inscripción.
type AnalyticsRepository interface {
	GetEnrollmentStats(ctx context.Context) (*EnrollmentStats, error)
}
