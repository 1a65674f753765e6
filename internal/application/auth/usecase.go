package auth

import (
	"context"

	"github.com/jhoicas/beacon-api/internal/application/dto"
	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
	"github.com/jhoicas/beacon-api/internal/domain/repository"
	"github.com/jhoicas/beacon-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase caso de uso de autenticación: login con email/password.
// El alta de cuentas vive en EmployeeUseCase (la hace RR.HH., no el propio usuario).
type AuthUseCase struct {
	repo   repository.EmployeeRepository
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repo repository.EmployeeRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{repo: repo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + empleado.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	employee, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, employee.ID, employee.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toEmployeeResponse(employee),
	}, nil
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
