// Package metrics expone los contadores Prometheus del motor biométrico.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/beacon-api/internal/application/biometric"
)

var _ biometric.Metrics = (*Metrics)(nil)

// Metrics implementación Prometheus del puerto biometric.Metrics.
type Metrics struct {
	// Asignaciones hechas en modo degradado (dispositivo inalcanzable).
	AllocationsDegraded prometheus.Counter
	// Desenlaces de enroll por resultado: enrolled, pending, failed.
	Enrollments *prometheus.CounterVec
	// Llamadas al servicio de dispositivos por operación y resultado.
	DeviceCalls *prometheus.CounterVec
}

// New crea y registra los contadores en el registry por defecto.
func New() *Metrics {
	return &Metrics{
		AllocationsDegraded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "beacon_biometric_allocations_degraded_total",
			Help: "Asignaciones de ID biométrico calculadas sin consultar el dispositivo",
		}),
		Enrollments: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_biometric_enrollments_total",
			Help: "Desenlaces de inscripción por resultado",
		}, []string{"outcome"}), // outcome: "enrolled", "pending", "failed"
		DeviceCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_device_requests_total",
			Help: "Llamadas al servicio de control de dispositivos por operación y resultado",
		}, []string{"op", "status"}), // status: "ok", "error"
	}
}

// AllocationDegraded cuenta una asignación degradada.
func (m *Metrics) AllocationDegraded() {
	if m != nil {
		m.AllocationsDegraded.Inc()
	}
}

// EnrollmentResult cuenta el desenlace de un enroll.
func (m *Metrics) EnrollmentResult(outcome string) {
	if m != nil {
		m.Enrollments.WithLabelValues(outcome).Inc()
	}
}

// DeviceCall cuenta una llamada al gateway de dispositivos.
func (m *Metrics) DeviceCall(op string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.DeviceCalls.WithLabelValues(op, status).Inc()
}
