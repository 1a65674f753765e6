package repository

import (
	"context"
	"time"

	"github.com/jhoicas/beacon-api/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia para Employee (DIP).
//
// El contrato de unicidad es parte del puerto: toda escritura que asigne un
// BiometricID debe rechazar atómicamente un duplicado (constraint único en el
// almacén) y reportarlo como *domain.BiometricConflictError. El motor de
// asignación depende de esa garantía como único punto de linealización.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	// List filtra por texto (nombre o email, case-insensitive) y/o rol; ambos opcionales.
	List(ctx context.Context, search, role string) ([]*entity.Employee, error)
	UpdateProfile(ctx context.Context, e *entity.Employee) error

	// FindByBiometricID devuelve el empleado que tiene asignado ese ID, o nil.
	FindByBiometricID(ctx context.Context, biometricID int) (*entity.Employee, error)
	// FindByBiometricIDs resuelve varios IDs en una sola consulta (vista de reconciliación).
	FindByBiometricIDs(ctx context.Context, biometricIDs []int) (map[int]*entity.Employee, error)
	// ListBiometricIDs devuelve todos los IDs biométricos no nulos del almacén.
	ListBiometricIDs(ctx context.Context) ([]int, error)

	// ReserveBiometricID escribe la reserva (biometric_id=id, fingerprint_enrolled=false).
	// La violación de unicidad al escribir se reporta como conflicto reintentable.
	ReserveBiometricID(ctx context.Context, employeeID string, biometricID int) error
	// MarkEnrolled transiciona a ENROLLED persistiendo template, enrolledAt y enrolledBy.
	MarkEnrolled(ctx context.Context, employeeID string, template []byte, enrolledAt time.Time, enrolledBy string) error
	// LinkBiometricID es el override administrativo: asigna el uid y marca enrolled
	// sin template (el template se recupera después con un sync).
	LinkBiometricID(ctx context.Context, employeeID string, biometricID int, enrolledAt time.Time, enrolledBy string) error
	// ClearBiometric elimina la vinculación biométrica completa del empleado.
	ClearBiometric(ctx context.Context, employeeID string) error

	// ListEnrolled devuelve los empleados completamente inscritos (feed de sincronización edge).
	ListEnrolled(ctx context.Context) ([]*entity.Employee, error)
}
