package biometric

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/beacon-api/internal/application/dto"
	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
	"github.com/jhoicas/beacon-api/internal/domain/repository"
	"github.com/jhoicas/beacon-api/pkg/logger"
)

// UseCase orquesta la máquina de estados de inscripción:
//
//	UNASSIGNED ──(allocate)──> ID_RESERVED ──(enroll/verify con template)──> ENROLLED
//
// ID_RESERVED es un estado pausado válido: la "sesión" de inscripción no se
// persiste en ningún lado, se reconstruye leyendo el empleado (biometric_id
// asignado + fingerprint_enrolled=false), de modo que cualquier cliente puede
// retomar con verify en cualquier momento re-suministrando la IP del
// dispositivo.
type UseCase struct {
	repo      repository.EmployeeRepository
	gateway   DeviceGateway
	allocator *Allocator
	metrics   Metrics
	log       *logger.Logger
	defaultIP string
}

// NewUseCase construye el motor de inscripción.
func NewUseCase(repo repository.EmployeeRepository, gateway DeviceGateway, allocator *Allocator, metrics Metrics, log *logger.Logger, defaultDeviceIP string) *UseCase {
	return &UseCase{repo: repo, gateway: gateway, allocator: allocator, metrics: metrics, log: log, defaultIP: defaultDeviceIP}
}

// resolveDeviceIP aplica el dispositivo por defecto cuando el caller no indica uno.
func (uc *UseCase) resolveDeviceIP(deviceIP string) string {
	if deviceIP == "" {
		return uc.defaultIP
	}
	return deviceIP
}

// Enroll ejecuta asignación + inscripción en hardware.
//
// La reserva del ID se persiste antes de tocar el dispositivo; si el
// dispositivo falla, la operación devuelve ErrEnrollmentFailed pero el
// empleado queda en ID_RESERVED y el reintento reutiliza la reserva.
func (uc *UseCase) Enroll(ctx context.Context, employeeID, deviceIP string, requestedID *int, operatorID string) (*dto.EnrollResponse, error) {
	deviceIP = uc.resolveDeviceIP(deviceIP)

	employee, err := uc.repo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}

	alloc, err := uc.allocator.Allocate(ctx, employee, deviceIP, requestedID)
	if err != nil {
		return nil, err
	}

	outcome, err := uc.gateway.Enroll(ctx, deviceIP, alloc.BiometricID, employee.Name)
	uc.metrics.DeviceCall("enroll", err == nil)
	if err != nil {
		uc.metrics.EnrollmentResult(OutcomeFailed)
		uc.log.Error().Err(err).Str("employee_id", employeeID).Int("biometric_id", alloc.BiometricID).
			Str("device_ip", deviceIP).Msg("el dispositivo rechazó la inscripción; la reserva del ID se mantiene")
		return nil, err
	}

	if outcome.PendingManual() {
		// El usuario quedó creado en el dispositivo sin huella: inscripción
		// manual pendiente. No es un error; el ID ya está reservado.
		uc.metrics.EnrollmentResult(OutcomePending)
		return &dto.EnrollResponse{
			Success:               true,
			Employee:              toEmployeeResponse(employee),
			Message:               outcome.Message,
			Instructions:          outcome.Instructions,
			NeedsManualEnrollment: true,
			DegradedAllocation:    alloc.Degraded,
		}, nil
	}

	now := time.Now()
	if err := uc.repo.MarkEnrolled(ctx, employee.ID, outcome.Template, now, operatorID); err != nil {
		return nil, fmt.Errorf("persistir inscripción: %w", err)
	}
	employee.FingerprintTemplate = outcome.Template
	employee.FingerprintEnrolled = true
	employee.EnrolledAt = &now
	employee.EnrolledBy = &operatorID

	uc.metrics.EnrollmentResult(OutcomeEnrolled)
	uc.log.Info().Str("employee_id", employeeID).Int("biometric_id", alloc.BiometricID).
		Msg("huella inscrita y template persistido")

	return &dto.EnrollResponse{
		Success:            true,
		Employee:           toEmployeeResponse(employee),
		Message:            outcome.Message,
		DegradedAllocation: alloc.Degraded,
	}, nil
}

// Verify consulta el dispositivo por el ID reservado y, si la huella ya fue
// capturada, completa la transición a ENROLLED. Idempotente: con success=false
// no hay efectos secundarios y puede reintentarse indefinidamente.
func (uc *UseCase) Verify(ctx context.Context, biometricID int, deviceIP, operatorID string) (*dto.VerifyResponse, error) {
	deviceIP = uc.resolveDeviceIP(deviceIP)

	employee, err := uc.repo.FindByBiometricID(ctx, biometricID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}

	outcome, err := uc.gateway.Verify(ctx, deviceIP, biometricID)
	uc.metrics.DeviceCall("verify", err == nil)
	if err != nil {
		return nil, err
	}

	if !outcome.Enrolled || len(outcome.Template) == 0 {
		// Sin template todavía: el empleado sigue en ID_RESERVED y el mensaje
		// del servicio se devuelve tal cual.
		return &dto.VerifyResponse{Success: false, Message: outcome.Message}, nil
	}

	now := time.Now()
	if err := uc.repo.MarkEnrolled(ctx, employee.ID, outcome.Template, now, operatorID); err != nil {
		return nil, fmt.Errorf("persistir verificación: %w", err)
	}

	uc.log.Info().Str("employee_id", employee.ID).Int("biometric_id", biometricID).
		Msg("inscripción verificada, template recuperado del dispositivo")

	return &dto.VerifyResponse{Success: true, Message: "Huella verificada y template recuperado"}, nil
}

// ListDeviceUsers lista los usuarios del dispositivo anotando cada uno con el
// empleado (si existe) cuyo biometric_id coincide con su uid. Esta vista
// existe porque dispositivo y almacén pueden divergir en silencio: altas hechas
// en el menú del hardware, o registros con ID obsoleto tras borrados en el
// dispositivo.
func (uc *UseCase) ListDeviceUsers(ctx context.Context, deviceIP string) (*dto.DeviceUsersResponse, error) {
	users, err := uc.gateway.ListUsers(ctx, deviceIP)
	uc.metrics.DeviceCall("list_users", err == nil)
	if err != nil {
		return nil, err
	}

	uids := make([]int, 0, len(users))
	for _, u := range users {
		uids = append(uids, u.UID)
	}
	linked, err := uc.repo.FindByBiometricIDs(ctx, uids)
	if err != nil {
		return nil, fmt.Errorf("resolver empleados vinculados: %w", err)
	}

	out := &dto.DeviceUsersResponse{DeviceIP: deviceIP, Users: make([]dto.DeviceUserResponse, 0, len(users))}
	for _, u := range users {
		item := dto.DeviceUserResponse{UID: u.UID, Name: u.Name, HasFingerprint: u.HasFingerprint}
		if emp, ok := linked[u.UID]; ok {
			item.LinkedEmployee = &dto.LinkedEmployee{
				ID:                  emp.ID,
				Name:                emp.Name,
				Email:               emp.Email,
				FingerprintEnrolled: emp.FingerprintEnrolled,
			}
		}
		out.Users = append(out.Users, item)
	}
	return out, nil
}

// ListDevices lista los scanners configurados vía el servicio de control.
// Si el servicio no responde, degrada a la entrada estática configurada para
// que el panel siga siendo operable.
func (uc *UseCase) ListDevices(ctx context.Context) (*dto.DevicesResponse, error) {
	devices, err := uc.gateway.ListDevices(ctx)
	uc.metrics.DeviceCall("list_devices", err == nil)
	if err != nil {
		uc.log.Warn().Err(err).Msg("servicio de dispositivos no disponible, devolviendo catálogo estático")
		return &dto.DevicesResponse{Devices: []dto.DeviceResponse{{
			IP:       uc.defaultIP,
			Name:     "Office Device",
			Location: "Conexión directa (fallback)",
			Status:   "unknown",
		}}}, nil
	}

	out := &dto.DevicesResponse{Devices: make([]dto.DeviceResponse, 0, len(devices))}
	for _, d := range devices {
		out.Devices = append(out.Devices, dto.DeviceResponse{
			IP:             d.IP,
			Name:           d.Name,
			Location:       d.Location,
			Status:         d.Status,
			UsersCount:     d.UsersCount,
			TemplatesCount: d.TemplatesCount,
			DeviceName:     d.DeviceName,
			Firmware:       d.Firmware,
		})
	}
	return out, nil
}

// Link es el override administrativo: vincula el empleado al uid reportado por
// el dispositivo y lo marca inscrito SIN recuperar el template. Deja
// deliberadamente fingerprint_enrolled=true con template NULL, un estado
// transitorio legal que se repara con SyncFingerprint.
func (uc *UseCase) Link(ctx context.Context, employeeID string, uid int, operatorID string) (*dto.EmployeeResponse, error) {
	if !entity.ValidBiometricID(uid) {
		return nil, domain.ErrInvalidBiometricID
	}

	employee, err := uc.repo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}

	holder, err := uc.repo.FindByBiometricID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.ID != employeeID {
		return nil, &domain.BiometricConflictError{BiometricID: uid, HolderID: holder.ID, HolderName: holder.Name}
	}

	now := time.Now()
	if err := uc.repo.LinkBiometricID(ctx, employeeID, uid, now, operatorID); err != nil {
		if conflict, ok := domain.IsBiometricConflict(err); ok {
			conflict.Retryable = false
		}
		return nil, err
	}

	employee.BiometricID = &uid
	employee.FingerprintEnrolled = true
	employee.EnrolledAt = &now
	employee.EnrolledBy = &operatorID

	uc.log.Info().Str("employee_id", employeeID).Int("uid", uid).
		Msg("empleado vinculado a usuario del dispositivo sin template (pendiente de sync)")

	return toEmployeeResponse(employee), nil
}

// SyncFingerprint recupera el template de un empleado ya vinculado: es un
// enroll reutilizando su uid existente, que en el dispositivo resuelve al
// template ya capturado.
func (uc *UseCase) SyncFingerprint(ctx context.Context, employeeID, deviceIP, operatorID string) (*dto.EnrollResponse, error) {
	employee, err := uc.repo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	if employee.BiometricID == nil {
		return nil, domain.ErrNotReserved
	}
	return uc.Enroll(ctx, employeeID, deviceIP, employee.BiometricID, operatorID)
}

// Unlink elimina la vinculación biométrica del empleado en el almacén.
// Contraparte explícita de DeleteDeviceUser, que a propósito no cascadea.
func (uc *UseCase) Unlink(ctx context.Context, employeeID string) error {
	employee, err := uc.repo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		return domain.ErrEmployeeNotFound
	}
	return uc.repo.ClearBiometric(ctx, employeeID)
}

// DeleteDeviceUser borra el usuario del dispositivo. A propósito NO limpia la
// vinculación del empleado que apunte a ese uid: dispositivo y almacén derivan
// por diseño y la limpieza del lado del almacén es una decisión del operador
// (Unlink). La vista de reconciliación hace visible la deriva resultante.
func (uc *UseCase) DeleteDeviceUser(ctx context.Context, deviceIP string, uid int) error {
	err := uc.gateway.DeleteUser(ctx, deviceIP, uid)
	uc.metrics.DeviceCall("delete_user", err == nil)
	return err
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
