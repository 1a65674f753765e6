package biometric_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/beacon-api/internal/application/biometric"
	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
	"github.com/jhoicas/beacon-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes compartidos por los tests del motor biométrico
// ──────────────────────────────────────────────────────────────────────────────

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

// fakeEmployeeRepo es un repositorio en memoria que reproduce el contrato de
// unicidad del puerto: toda escritura de biometric_id rechaza atómicamente los
// duplicados, igual que el constraint único de PostgreSQL.
type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]*entity.Employee

	listIDsErr error // inyección de fallo para ListBiometricIDs
}

func newFakeEmployeeRepo(employees ...*entity.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: make(map[string]*entity.Employee)}
	for _, e := range employees {
		r.employees[e.ID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.employees {
		if other.Email == e.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.employees[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.employees[id], nil
}

func (r *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, search, role string) ([]*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Employee
	for _, e := range r.employees {
		if role != "" && e.Role != role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name+e.Email), strings.ToLower(search)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) UpdateProfile(_ context.Context, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[e.ID]; !ok {
		return domain.ErrEmployeeNotFound
	}
	r.employees[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) FindByBiometricID(_ context.Context, biometricID int) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.holderOf(biometricID), nil
}

func (r *fakeEmployeeRepo) FindByBiometricIDs(_ context.Context, biometricIDs []int) (map[int]*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]*entity.Employee)
	for _, id := range biometricIDs {
		if e := r.holderOf(id); e != nil {
			out[id] = e
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListBiometricIDs(_ context.Context) ([]int, error) {
	if r.listIDsErr != nil {
		return nil, r.listIDsErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, e := range r.employees {
		if e.BiometricID != nil {
			out = append(out, *e.BiometricID)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ReserveBiometricID(_ context.Context, employeeID string, biometricID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if holder := r.holderOf(biometricID); holder != nil && holder.ID != employeeID {
		return &domain.BiometricConflictError{
			BiometricID: biometricID,
			HolderID:    holder.ID,
			HolderName:  holder.Name,
			Retryable:   true,
		}
	}
	e, ok := r.employees[employeeID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	id := biometricID
	e.BiometricID = &id
	e.FingerprintEnrolled = false
	return nil
}

func (r *fakeEmployeeRepo) MarkEnrolled(_ context.Context, employeeID string, template []byte, enrolledAt time.Time, enrolledBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[employeeID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	e.FingerprintTemplate = template
	e.FingerprintEnrolled = true
	e.EnrolledAt = &enrolledAt
	e.EnrolledBy = &enrolledBy
	return nil
}

func (r *fakeEmployeeRepo) LinkBiometricID(_ context.Context, employeeID string, biometricID int, enrolledAt time.Time, enrolledBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if holder := r.holderOf(biometricID); holder != nil && holder.ID != employeeID {
		return &domain.BiometricConflictError{
			BiometricID: biometricID,
			HolderID:    holder.ID,
			HolderName:  holder.Name,
			Retryable:   true,
		}
	}
	e, ok := r.employees[employeeID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	id := biometricID
	e.BiometricID = &id
	e.FingerprintEnrolled = true
	e.EnrolledAt = &enrolledAt
	e.EnrolledBy = &enrolledBy
	return nil
}

func (r *fakeEmployeeRepo) ClearBiometric(_ context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[employeeID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	e.BiometricID = nil
	e.FingerprintTemplate = nil
	e.FingerprintEnrolled = false
	e.EnrolledAt = nil
	e.EnrolledBy = nil
	return nil
}

func (r *fakeEmployeeRepo) ListEnrolled(_ context.Context) ([]*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Employee
	for _, e := range r.employees {
		if e.FingerprintEnrolled {
			out = append(out, e)
		}
	}
	return out, nil
}

// holderOf se llama con r.mu tomado.
func (r *fakeEmployeeRepo) holderOf(biometricID int) *entity.Employee {
	for _, e := range r.employees {
		if e.BiometricID != nil && *e.BiometricID == biometricID {
			return e
		}
	}
	return nil
}

// fakeGateway implementa biometric.DeviceGateway con funciones inyectables.
type fakeGateway struct {
	listUsersFn  func(deviceIP string) ([]entity.DeviceUser, error)
	listDevicesFn func() ([]entity.DeviceInfo, error)
	enrollFn     func(deviceIP string, biometricID int, name string) (*biometric.EnrollOutcome, error)
	verifyFn     func(deviceIP string, biometricID int) (*biometric.VerifyOutcome, error)
	deleteUserFn func(deviceIP string, uid int) error

	listUsersCalls int
	enrollCalls    int
}

func (g *fakeGateway) ListUsers(_ context.Context, deviceIP string) ([]entity.DeviceUser, error) {
	g.listUsersCalls++
	if g.listUsersFn == nil {
		return nil, nil
	}
	return g.listUsersFn(deviceIP)
}

func (g *fakeGateway) ListDevices(_ context.Context) ([]entity.DeviceInfo, error) {
	if g.listDevicesFn == nil {
		return nil, nil
	}
	return g.listDevicesFn()
}

func (g *fakeGateway) Enroll(_ context.Context, deviceIP string, biometricID int, name string) (*biometric.EnrollOutcome, error) {
	g.enrollCalls++
	if g.enrollFn == nil {
		return &biometric.EnrollOutcome{Message: "ok"}, nil
	}
	return g.enrollFn(deviceIP, biometricID, name)
}

func (g *fakeGateway) Verify(_ context.Context, deviceIP string, biometricID int) (*biometric.VerifyOutcome, error) {
	if g.verifyFn == nil {
		return &biometric.VerifyOutcome{}, nil
	}
	return g.verifyFn(deviceIP, biometricID)
}

func (g *fakeGateway) DeleteUser(_ context.Context, deviceIP string, uid int) error {
	if g.deleteUserFn == nil {
		return nil
	}
	return g.deleteUserFn(deviceIP, uid)
}

// intPtr helper para literales.
func intPtr(v int) *int { return &v }
