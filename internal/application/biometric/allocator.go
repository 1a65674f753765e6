package biometric

import (
	"context"
	"fmt"

	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
	"github.com/jhoicas/beacon-api/internal/domain/repository"
	"github.com/jhoicas/beacon-api/pkg/logger"
)

// AllocationResult resultado de una asignación de ID biométrico.
type AllocationResult struct {
	BiometricID int
	// Degraded indica que el listado del dispositivo falló y la asignación se
	// calculó solo con los IDs conocidos por el almacén (disponibilidad sobre
	// consistencia; el constraint único de la DB sigue garantizando unicidad).
	Degraded bool
	// Reused indica que se reutilizó una reserva existente en vez de asignar.
	Reused bool
}

// Allocator asigna IDs biométricos cruzando dos espacios de identificadores
// independientes: la tabla de usuarios del dispositivo y el almacén de
// empleados. No existe transacción que abarque ambos, así que el escaneo
// previo es solo consultivo; la escritura con constraint único en el almacén
// es el único punto de linealización. Ante conflicto en esa escritura el
// caller debe reintentar la asignación completa, no solo la escritura.
type Allocator struct {
	repo    repository.EmployeeRepository
	gateway DeviceGateway
	metrics Metrics
	log     *logger.Logger
}

// NewAllocator construye el asignador.
func NewAllocator(repo repository.EmployeeRepository, gateway DeviceGateway, metrics Metrics, log *logger.Logger) *Allocator {
	return &Allocator{repo: repo, gateway: gateway, metrics: metrics, log: log}
}

// NextAvailableID devuelve el primer entero de 1..9999 ausente de la unión de
// ambos conjuntos de IDs usados, o ErrIDSpaceExhausted si no queda ninguno.
// Función pura: trivial de testear sin dispositivo ni DB.
func NextAvailableID(usedStore, usedDevice []int) (int, error) {
	used := make(map[int]struct{}, len(usedStore)+len(usedDevice))
	for _, id := range usedStore {
		used[id] = struct{}{}
	}
	for _, id := range usedDevice {
		used[id] = struct{}{}
	}
	for id := entity.BiometricIDMin; id <= entity.BiometricIDMax; id++ {
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	return 0, domain.ErrIDSpaceExhausted
}

// Allocate asigna o valida un ID biométrico para el empleado y persiste la
// reserva (biometric_id asignado, huella sin inscribir) ANTES de cualquier
// interacción con el hardware. Política de reservar primero: si la inscripción
// en el dispositivo falla después, la reserva queda persistida y un reintento
// la encuentra en vez de re-asignar.
func (a *Allocator) Allocate(ctx context.Context, employee *entity.Employee, deviceIP string, requestedID *int) (*AllocationResult, error) {
	if requestedID != nil {
		return a.allocateRequested(ctx, employee, *requestedID)
	}

	// Reserva existente: un enroll abandonado a mitad de camino deja al
	// empleado en ID_RESERVED indefinidamente; el reintento la reutiliza.
	if employee.BiometricID != nil {
		return &AllocationResult{BiometricID: *employee.BiometricID, Reused: true}, nil
	}

	degraded := false
	var usedDevice []int
	deviceUsers, err := a.gateway.ListUsers(ctx, deviceIP)
	if err != nil {
		// Modo degradado: el conjunto del dispositivo se trata como vacío.
		// Observable, nunca silencioso.
		degraded = true
		a.metrics.AllocationDegraded()
		a.log.Warn().Err(err).Str("device_ip", deviceIP).
			Msg("asignación degradada: no se pudo listar usuarios del dispositivo, usando solo IDs del almacén")
	} else {
		usedDevice = make([]int, 0, len(deviceUsers))
		for _, u := range deviceUsers {
			usedDevice = append(usedDevice, u.UID)
		}
	}

	usedStore, err := a.repo.ListBiometricIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar IDs biométricos del almacén: %w", err)
	}

	id, err := NextAvailableID(usedStore, usedDevice)
	if err != nil {
		return nil, err
	}

	// El pre-chequeo de arriba es consultivo: entre el escaneo y esta escritura
	// otro asignador pudo tomar el mismo ID. El constraint único decide; un
	// 23505 llega como conflicto reintentable.
	if err := a.repo.ReserveBiometricID(ctx, employee.ID, id); err != nil {
		return nil, err
	}

	a.log.Info().Int("biometric_id", id).Str("employee_id", employee.ID).Bool("degraded", degraded).
		Msg("ID biométrico auto-asignado y reservado")

	employee.BiometricID = &id
	return &AllocationResult{BiometricID: id, Degraded: degraded}, nil
}

// allocateRequested valida y reserva un ID elegido por el operador.
// Un conflicto aquí NO es reintentable: el mismo ID seguirá tomado.
func (a *Allocator) allocateRequested(ctx context.Context, employee *entity.Employee, requestedID int) (*AllocationResult, error) {
	if !entity.ValidBiometricID(requestedID) {
		return nil, domain.ErrInvalidBiometricID
	}

	holder, err := a.repo.FindByBiometricID(ctx, requestedID)
	if err != nil {
		return nil, fmt.Errorf("buscar titular del ID %d: %w", requestedID, err)
	}
	if holder != nil && holder.ID != employee.ID {
		return nil, &domain.BiometricConflictError{
			BiometricID: requestedID,
			HolderID:    holder.ID,
			HolderName:  holder.Name,
			Retryable:   false,
		}
	}
	if holder != nil && holder.ID == employee.ID {
		// El empleado ya tiene este ID (re-enroll o sync de template).
		return &AllocationResult{BiometricID: requestedID, Reused: true}, nil
	}

	if err := a.repo.ReserveBiometricID(ctx, employee.ID, requestedID); err != nil {
		// El repositorio marca el conflicto de escritura como reintentable
		// (carrera de auto-asignación); cuando el ID lo eligió el operador,
		// reintentar con el mismo ID es inútil.
		if conflict, ok := domain.IsBiometricConflict(err); ok {
			conflict.Retryable = false
		}
		return nil, err
	}

	employee.BiometricID = &requestedID
	return &AllocationResult{BiometricID: requestedID}, nil
}
