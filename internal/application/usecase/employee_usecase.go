package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/beacon-api/internal/application/dto"
	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
	"github.com/jhoicas/beacon-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeUseCase CRUD de empleados. No toca campos biométricos: esos los muta
// exclusivamente el motor de inscripción.
type EmployeeUseCase struct {
	repo repository.EmployeeRepository
}

// NewEmployeeUseCase construye el caso de uso con el puerto de persistencia.
func NewEmployeeUseCase(repo repository.EmployeeRepository) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo}
}

// Create da de alta un empleado: hashea el password con bcrypt y persiste.
func (uc *EmployeeUseCase) Create(ctx context.Context, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	role := in.Role
	if role == "" {
		role = entity.RoleEmployee
	}
	if !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	employee := &entity.Employee{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// GetByID obtiene un empleado por ID.
func (uc *EmployeeUseCase) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	employee, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	return toEmployeeResponse(employee), nil
}

// List lista empleados con filtro por texto (nombre/email) y rol.
func (uc *EmployeeUseCase) List(ctx context.Context, search, role string) ([]*dto.EmployeeResponse, error) {
	if role != "" && !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	employees, err := uc.repo.List(ctx, search, role)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	return out, nil
}

// Update actualiza el perfil (nombre, email, rol) de un empleado.
func (uc *EmployeeUseCase) Update(ctx context.Context, id string, in dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}

	if in.Email != "" && in.Email != employee.Email {
		other, err := uc.repo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrEmailAlreadyExists
		}
		employee.Email = in.Email
	}
	if in.Name != "" {
		employee.Name = in.Name
	}
	if in.Role != "" {
		if !entity.ValidRole(in.Role) {
			return nil, domain.ErrInvalidInput
		}
		employee.Role = in.Role
	}
	employee.UpdatedAt = time.Now()

	if err := uc.repo.UpdateProfile(ctx, employee); err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// ListEnrolledForSync feed de sincronización para nodos edge: empleados
// completamente inscritos con su template.
func (uc *EmployeeUseCase) ListEnrolledForSync(ctx context.Context) (*dto.SyncUsersResponse, error) {
	employees, err := uc.repo.ListEnrolled(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.SyncUsersResponse{
		Users:    make([]dto.SyncEmployee, 0, len(employees)),
		SyncedAt: time.Now(),
	}
	for _, e := range employees {
		if e.BiometricID == nil {
			continue
		}
		out.Users = append(out.Users, dto.SyncEmployee{
			ID:                  e.ID,
			BiometricID:         *e.BiometricID,
			Name:                e.Name,
			Email:               e.Email,
			FingerprintTemplate: e.FingerprintTemplate,
			EnrolledAt:          e.EnrolledAt,
		})
	}
	out.Total = len(out.Users)
	return out, nil
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	if e == nil {
		return nil
	}
	return &dto.EmployeeResponse{
		ID:                  e.ID,
		Email:               e.Email,
		Name:                e.Name,
		Role:                e.Role,
		BiometricID:         e.BiometricID,
		FingerprintEnrolled: e.FingerprintEnrolled,
		EnrollmentState:     e.EnrollmentState(),
		EnrolledAt:          e.EnrolledAt,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}
