package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
	"github.com/jhoicas/beacon-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

const employeeColumns = `id, email, password_hash, name, role, biometric_id,
	fingerprint_template, fingerprint_enrolled, enrolled_at, enrolled_by, created_at, updated_at`

// EmployeeRepo implementación del puerto EmployeeRepository sobre PostgreSQL.
//
// La columna biometric_id lleva un constraint UNIQUE: esa es la única garantía
// de unicidad del sistema frente a asignadores concurrentes, y aquí se traduce
// el 23505 resultante a *domain.BiometricConflictError.
type EmployeeRepo struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository construye el adaptador de persistencia para empleados.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepo {
	return &EmployeeRepo{pool: pool}
}

// Create persiste un nuevo empleado.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	query := `
		INSERT INTO employees (id, email, password_hash, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		e.ID, e.Email, e.PasswordHash, e.Name, e.Role, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID obtiene un empleado por ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	return r.queryOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
}

// GetByEmail obtiene un empleado por email.
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	return r.queryOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1 LIMIT 1`, email)
}

// FindByBiometricID devuelve el empleado que tiene asignado ese ID biométrico, o nil.
func (r *EmployeeRepo) FindByBiometricID(ctx context.Context, biometricID int) (*entity.Employee, error) {
	return r.queryOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE biometric_id = $1`, biometricID)
}

// FindByBiometricIDs resuelve varios IDs en una sola consulta.
func (r *EmployeeRepo) FindByBiometricIDs(ctx context.Context, biometricIDs []int) (map[int]*entity.Employee, error) {
	out := make(map[int]*entity.Employee, len(biometricIDs))
	if len(biometricIDs) == 0 {
		return out, nil
	}
	ids := make([]int32, 0, len(biometricIDs))
	for _, id := range biometricIDs {
		ids = append(ids, int32(id))
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE biometric_id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find employees by biometric ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		if e.BiometricID != nil {
			out[*e.BiometricID] = e
		}
	}
	return out, rows.Err()
}

// ListBiometricIDs devuelve todos los IDs biométricos asignados en el almacén.
func (r *EmployeeRepo) ListBiometricIDs(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT biometric_id FROM employees WHERE biometric_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list biometric ids: %w", err)
	}
	defer rows.Close()
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan biometric id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List lista empleados con filtro opcional por texto (nombre o email) y rol.
func (r *EmployeeRepo) List(ctx context.Context, search, role string) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d)`, len(args), len(args))
	}
	if role != "" {
		args = append(args, role)
		query += fmt.Sprintf(` AND role = $%d`, len(args))
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// UpdateProfile actualiza nombre, email y rol. Los campos biométricos no se tocan.
func (r *EmployeeRepo) UpdateProfile(ctx context.Context, e *entity.Employee) error {
	query := `UPDATE employees SET email = $2, name = $3, role = $4, updated_at = $5 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, e.ID, e.Email, e.Name, e.Role, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// ReserveBiometricID escribe la reserva del ID. El constraint único de
// biometric_id es el punto de linealización: el pre-chequeo del asignador es
// consultivo y dos asignadores concurrentes se resuelven aquí, no antes.
func (r *EmployeeRepo) ReserveBiometricID(ctx context.Context, employeeID string, biometricID int) error {
	query := `
		UPDATE employees
		SET biometric_id = $2, fingerprint_enrolled = false, updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, employeeID, biometricID)
	if err != nil {
		if isUniqueViolation(err) {
			// Otro asignador ganó la carrera por este ID entre el escaneo y la
			// escritura; el caller debe reintentar la asignación completa.
			return &domain.BiometricConflictError{BiometricID: biometricID, Retryable: true}
		}
		return fmt.Errorf("reserve biometric id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// MarkEnrolled transiciona a ENROLLED: persiste template, enrolled_at y enrolled_by.
func (r *EmployeeRepo) MarkEnrolled(ctx context.Context, employeeID string, template []byte, enrolledAt time.Time, enrolledBy string) error {
	query := `
		UPDATE employees
		SET fingerprint_template = $2, fingerprint_enrolled = true,
		    enrolled_at = $3, enrolled_by = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, employeeID, template, enrolledAt, nullIfEmpty(enrolledBy))
	if err != nil {
		return fmt.Errorf("mark enrolled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// LinkBiometricID override administrativo: asigna uid y marca enrolled sin
// template. Deja fingerprint_template NULL a propósito.
func (r *EmployeeRepo) LinkBiometricID(ctx context.Context, employeeID string, biometricID int, enrolledAt time.Time, enrolledBy string) error {
	query := `
		UPDATE employees
		SET biometric_id = $2, fingerprint_enrolled = true,
		    enrolled_at = $3, enrolled_by = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, employeeID, biometricID, enrolledAt, nullIfEmpty(enrolledBy))
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.BiometricConflictError{BiometricID: biometricID, Retryable: true}
		}
		return fmt.Errorf("link biometric id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// ClearBiometric elimina la vinculación biométrica completa del empleado.
func (r *EmployeeRepo) ClearBiometric(ctx context.Context, employeeID string) error {
	query := `
		UPDATE employees
		SET biometric_id = NULL, fingerprint_template = NULL, fingerprint_enrolled = false,
		    enrolled_at = NULL, enrolled_by = NULL, updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, employeeID)
	if err != nil {
		return fmt.Errorf("clear biometric: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// ListEnrolled devuelve los empleados completamente inscritos, ordenados por ID biométrico.
func (r *EmployeeRepo) ListEnrolled(ctx context.Context) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE fingerprint_enrolled = true AND biometric_id IS NOT NULL
		ORDER BY biometric_id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list enrolled employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EmployeeRepo) queryOne(ctx context.Context, query string, args ...any) (*entity.Employee, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	e, err := scanEmployeeRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func scanEmployee(rows pgx.Rows) (*entity.Employee, error) {
	e, err := scanEmployeeRow(rows)
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployeeRow(row rowScanner) (*entity.Employee, error) {
	var e entity.Employee
	err := row.Scan(
		&e.ID, &e.Email, &e.PasswordHash, &e.Name, &e.Role, &e.BiometricID,
		&e.FingerprintTemplate, &e.FingerprintEnrolled, &e.EnrolledAt, &e.EnrolledBy,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
