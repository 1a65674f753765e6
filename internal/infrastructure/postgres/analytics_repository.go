package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/beacon-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de inscripción.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetEnrollmentStats agrega la cobertura de inscripción global y por rol.
// La tasa se calcula en SQL como NUMERIC para preservar precisión decimal.
func (r *AnalyticsRepo) GetEnrollmentStats(ctx context.Context) (*repository.EnrollmentStats, error) {
	const totalsQuery = `
	SELECT
	    COUNT(*)                                                                     AS total,
	    COUNT(*) FILTER (WHERE fingerprint_enrolled)                                 AS enrolled,
	    COUNT(*) FILTER (WHERE NOT fingerprint_enrolled AND biometric_id IS NOT NULL) AS reserved,
	    COUNT(*) FILTER (WHERE biometric_id IS NULL)                                 AS unassigned,
	    COUNT(*) FILTER (WHERE fingerprint_enrolled AND fingerprint_template IS NULL) AS missing_template,
	    COALESCE(
	        ROUND(COUNT(*) FILTER (WHERE fingerprint_enrolled)::NUMERIC * 100 / NULLIF(COUNT(*), 0), 2),
	        0
	    )                                                                            AS rate
	FROM employees`

	stats := &repository.EnrollmentStats{}
	err := r.pool.QueryRow(ctx, totalsQuery).Scan(
		&stats.TotalEmployees,
		&stats.Enrolled,
		&stats.Reserved,
		&stats.Unassigned,
		&stats.MissingTemplate,
		&stats.Rate,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetEnrollmentStats: %w", err)
	}

	const byRoleQuery = `
	SELECT
	    role,
	    COUNT(*)                                     AS total,
	    COUNT(*) FILTER (WHERE fingerprint_enrolled) AS enrolled,
	    COALESCE(
	        ROUND(COUNT(*) FILTER (WHERE fingerprint_enrolled)::NUMERIC * 100 / NULLIF(COUNT(*), 0), 2),
	        0
	    )                                            AS rate
	FROM employees
	GROUP BY role
	ORDER BY role ASC`

	rows, err := r.pool.Query(ctx, byRoleQuery)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetEnrollmentStats by role: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rc repository.RoleCoverage
		var rate decimal.Decimal
		if err := rows.Scan(&rc.Role, &rc.Total, &rc.Enrolled, &rate); err != nil {
			return nil, fmt.Errorf("analytics.GetEnrollmentStats scan: %w", err)
		}
		rc.Rate = rate
		stats.ByRole = append(stats.ByRole, rc)
	}
	return stats, rows.Err()
}
