package usecase

import (
	"context"

	"github.com/jhoicas/beacon-api/internal/application/dto"
	"github.com/jhoicas/beacon-api/internal/domain/repository"
)

// DashboardUseCase resume la cobertura de inscripción biométrica de la
// plantilla para el panel de RR.HH.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). No accede
// directamente a la tabla de empleados; delega todo en el repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardDTO con los agregados del almacén.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	stats, err := uc.analyticsRepo.GetEnrollmentStats(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardDTO{
		TotalEmployees:  stats.TotalEmployees,
		Enrolled:        stats.Enrolled,
		Reserved:        stats.Reserved,
		Unassigned:      stats.Unassigned,
		MissingTemplate: stats.MissingTemplate,
		EnrollmentRate:  stats.Rate,
		ByRole:          make([]dto.RoleCoverageDTO, 0, len(stats.ByRole)),
	}
	for _, rc := range stats.ByRole {
		out.ByRole = append(out.ByRole, dto.RoleCoverageDTO{
			Role:     rc.Role,
			Total:    rc.Total,
			Enrolled: rc.Enrolled,
			Rate:     rc.Rate,
		})
	}
	return out, nil
}
