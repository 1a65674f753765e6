// Package biometric contiene el motor de asignación y reconciliación de
// identidad biométrica: la única pieza del sistema que escribe transiciones de
// estado de inscripción en el almacén de empleados y el único caller del
// servicio de control de dispositivos para fines de identidad.
package biometric

import (
	"context"

	"github.com/jhoicas/beacon-api/internal/domain/entity"
)

// EnrollOutcome resultado de una orden de inscripción al dispositivo.
//
// Es una variante etiquetada por la presencia del template:
//   - Template != nil: el scanner ya tenía huella almacenada (o respondió
//     síncrono) y la devuelve; transición directa a ENROLLED.
//   - Template == nil: el usuario quedó creado en el dispositivo pero la
//     captura debe completarse manualmente en el hardware; Instructions trae
//     los pasos para el operador.
//
// El tercer caso (rechazo del dispositivo) viaja como error ErrEnrollmentFailed.
type EnrollOutcome struct {
	Template     []byte
	Message      string
	Instructions string
}

// PendingManual indica que la inscripción quedó a medias esperando la captura
// manual en el hardware.
func (o *EnrollOutcome) PendingManual() bool { return len(o.Template) == 0 }

// VerifyOutcome resultado de una consulta de verificación al dispositivo.
type VerifyOutcome struct {
	Enrolled bool
	Template []byte
	Message  string
}

// DeviceGateway es la frontera de capacidades frente a los scanners físicos.
// El motor nunca conoce el protocolo de cable del dispositivo; solo este puerto.
//
// Errores: ListUsers/ListDevices/DeleteUser fallan con ErrDeviceUnavailable en
// errores de red o del dispositivo; Enroll falla con ErrEnrollmentFailed
// llevando el detalle que reportó el servicio.
type DeviceGateway interface {
	ListUsers(ctx context.Context, deviceIP string) ([]entity.DeviceUser, error)
	ListDevices(ctx context.Context) ([]entity.DeviceInfo, error)
	Enroll(ctx context.Context, deviceIP string, biometricID int, name string) (*EnrollOutcome, error)
	Verify(ctx context.Context, deviceIP string, biometricID int) (*VerifyOutcome, error)
	DeleteUser(ctx context.Context, deviceIP string, uid int) error
}

// Metrics puerto de observabilidad del motor. La implementación concreta vive
// en infrastructure/metrics (Prometheus); los tests usan NopMetrics.
type Metrics interface {
	// AllocationDegraded cuenta asignaciones hechas sin consultar el dispositivo.
	AllocationDegraded()
	// EnrollmentResult cuenta el desenlace de cada enroll: enrolled, pending o failed.
	EnrollmentResult(outcome string)
	// DeviceCall cuenta llamadas al gateway por operación y resultado.
	DeviceCall(op string, ok bool)
}

// Desenlaces reportados a Metrics.EnrollmentResult.
const (
	OutcomeEnrolled = "enrolled"
	OutcomePending  = "pending"
	OutcomeFailed   = "failed"
)

// NopMetrics implementación vacía para tests y wiring parcial.
type NopMetrics struct{}

func (NopMetrics) AllocationDegraded()      {}
func (NopMetrics) EnrollmentResult(string)  {}
func (NopMetrics) DeviceCall(string, bool)  {}
