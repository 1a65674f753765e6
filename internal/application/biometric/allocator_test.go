package biometric_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beacon-api/internal/application/biometric"
	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
)

func newTestAllocator(repo *fakeEmployeeRepo, gw *fakeGateway) *biometric.Allocator {
	return biometric.NewAllocator(repo, gw, biometric.NopMetrics{}, newTestLogger())
}

func testEmployee(id string) *entity.Employee {
	return &entity.Employee{ID: id, Email: id + "@test.com", Name: "Empleado " + id, Role: entity.RoleEmployee}
}

// ──────────────────────────────────────────────────────────────────────────────
// NextAvailableID — escaneo puro sobre la unión de ambos espacios
// ──────────────────────────────────────────────────────────────────────────────

func TestNextAvailableID_EscaneoMonotonoSobreLaUnion(t *testing.T) {
	// Almacén usa {1,2,4}, dispositivo usa {3}: el primer hueco de la unión es 5.
	id, err := biometric.NextAvailableID([]int{1, 2, 4}, []int{3})
	require.NoError(t, err)
	assert.Equal(t, 5, id)
}

func TestNextAvailableID_EspacioVacioEmpiezaEnUno(t *testing.T) {
	id, err := biometric.NextAvailableID(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestNextAvailableID_RellenaHuecosIntermedios(t *testing.T) {
	id, err := biometric.NextAvailableID([]int{1, 3, 5}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, 4, id)
}

func TestNextAvailableID_EspacioAgotado(t *testing.T) {
	used := make([]int, 0, entity.BiometricIDMax)
	for i := entity.BiometricIDMin; i <= entity.BiometricIDMax; i++ {
		used = append(used, i)
	}
	_, err := biometric.NextAvailableID(used, nil)
	assert.ErrorIs(t, err, domain.ErrIDSpaceExhausted)
}

// ──────────────────────────────────────────────────────────────────────────────
// Allocate — auto-asignación
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_AutoAsignaYReserva(t *testing.T) {
	emp := testEmployee("e1")
	taken := testEmployee("e2")
	taken.BiometricID = intPtr(1)
	repo := newFakeEmployeeRepo(emp, taken)
	gw := &fakeGateway{listUsersFn: func(string) ([]entity.DeviceUser, error) {
		return []entity.DeviceUser{{UID: 2}}, nil
	}}

	res, err := newTestAllocator(repo, gw).Allocate(context.Background(), emp, "10.0.0.5", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.BiometricID, "debe saltar el 1 (almacén) y el 2 (dispositivo)")
	assert.False(t, res.Degraded)
	assert.False(t, res.Reused)

	// La reserva quedó persistida con la huella sin inscribir.
	stored, _ := repo.GetByID(context.Background(), "e1")
	require.NotNil(t, stored.BiometricID)
	assert.Equal(t, 3, *stored.BiometricID)
	assert.False(t, stored.FingerprintEnrolled)
}

func TestAllocate_ReutilizaReservaExistente(t *testing.T) {
	emp := testEmployee("e1")
	emp.BiometricID = intPtr(42)
	repo := newFakeEmployeeRepo(emp)
	gw := &fakeGateway{}

	res, err := newTestAllocator(repo, gw).Allocate(context.Background(), emp, "10.0.0.5", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, res.BiometricID)
	assert.True(t, res.Reused)
	assert.Zero(t, gw.listUsersCalls, "una reserva existente no debe tocar el dispositivo")
}

func TestAllocate_ModoDegradadoCuandoElDispositivoNoResponde(t *testing.T) {
	emp := testEmployee("e1")
	taken := testEmployee("e2")
	taken.BiometricID = intPtr(1)
	repo := newFakeEmployeeRepo(emp, taken)
	gw := &fakeGateway{listUsersFn: func(string) ([]entity.DeviceUser, error) {
		return nil, fmt.Errorf("%w: connection refused", domain.ErrDeviceUnavailable)
	}}

	res, err := newTestAllocator(repo, gw).Allocate(context.Background(), emp, "10.0.0.5", nil)
	require.NoError(t, err, "el fallo del dispositivo degrada la asignación, no la aborta")
	assert.True(t, res.Degraded)
	assert.Equal(t, 2, res.BiometricID, "solo los IDs del almacén cuentan en modo degradado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Allocate — ID solicitado por el operador
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_IDSolicitadoFueraDeRango(t *testing.T) {
	emp := testEmployee("e1")
	repo := newFakeEmployeeRepo(emp)
	alloc := newTestAllocator(repo, &fakeGateway{})

	for _, bad := range []int{0, -1, 10000} {
		_, err := alloc.Allocate(context.Background(), emp, "10.0.0.5", intPtr(bad))
		assert.ErrorIs(t, err, domain.ErrInvalidBiometricID, "id %d", bad)
	}
}

func TestAllocate_IDSolicitadoEnConflicto_NoReintentable(t *testing.T) {
	emp := testEmployee("e1")
	holder := testEmployee("e2")
	holder.BiometricID = intPtr(7)
	repo := newFakeEmployeeRepo(emp, holder)

	_, err := newTestAllocator(repo, &fakeGateway{}).Allocate(context.Background(), emp, "10.0.0.5", intPtr(7))
	require.Error(t, err)

	conflict, ok := domain.IsBiometricConflict(err)
	require.True(t, ok)
	assert.Equal(t, 7, conflict.BiometricID)
	assert.Equal(t, "e2", conflict.HolderID)
	assert.False(t, conflict.Retryable, "el mismo ID seguirá tomado: reintentar es inútil")

	// El conflicto se rechaza sin escribir nada.
	stored, _ := repo.GetByID(context.Background(), "e1")
	assert.Nil(t, stored.BiometricID)
}

func TestAllocate_IDSolicitadoPropio_Reutiliza(t *testing.T) {
	emp := testEmployee("e1")
	emp.BiometricID = intPtr(7)
	repo := newFakeEmployeeRepo(emp)

	res, err := newTestAllocator(repo, &fakeGateway{}).Allocate(context.Background(), emp, "10.0.0.5", intPtr(7))
	require.NoError(t, err)
	assert.True(t, res.Reused, "re-enroll con el propio ID no es conflicto")
	assert.Equal(t, 7, res.BiometricID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Unicidad bajo asignación concurrente
// ──────────────────────────────────────────────────────────────────────────────

// Varios asignadores compiten por el mismo espacio de IDs. El pre-escaneo no es
// atómico con la escritura, así que las carreras producen conflictos
// reintentables; tras reintentar, cada empleado debe terminar con un ID único.
func TestAllocate_ConcurrenciaProduceIDsUnicos(t *testing.T) {
	const n = 20

	employees := make([]*entity.Employee, n)
	for i := range employees {
		employees[i] = testEmployee(fmt.Sprintf("e%02d", i))
	}
	repo := newFakeEmployeeRepo(employees...)
	alloc := newTestAllocator(repo, &fakeGateway{})

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, emp := range employees {
		wg.Add(1)
		go func(emp *entity.Employee) {
			defer wg.Done()
			for attempt := 0; attempt < n; attempt++ {
				_, err := alloc.Allocate(context.Background(), emp, "10.0.0.5", nil)
				if err == nil {
					return
				}
				if conflict, ok := domain.IsBiometricConflict(err); ok && conflict.Retryable {
					continue
				}
				errs <- err
				return
			}
			errs <- errors.New("agotados los reintentos de asignación")
		}(emp)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("asignación concurrente: %v", err)
	}

	seen := make(map[int]string, n)
	for _, emp := range employees {
		stored, _ := repo.GetByID(context.Background(), emp.ID)
		require.NotNil(t, stored.BiometricID, "empleado %s sin ID asignado", emp.ID)
		if prev, dup := seen[*stored.BiometricID]; dup {
			t.Fatalf("ID %d duplicado entre %s y %s", *stored.BiometricID, prev, emp.ID)
		}
		seen[*stored.BiometricID] = emp.ID
	}
}
