package dto

// EnrollRequest entrada de POST /api/hr/employees/:id/enroll.
// BiometricID es opcional: si se omite, el motor asigna el primer ID libre.
type EnrollRequest struct {
	DeviceIP    string `json:"device_ip" validate:"required,min=7"`
	BiometricID *int   `json:"biometric_id" validate:"omitempty,min=1,max=9999"`
}

// EnrollResponse salida de enroll.
//
// NeedsManualEnrollment=true NO es un error: el ID quedó reservado y el
// operador debe completar la captura de huella en el hardware siguiendo
// Instructions, y luego llamar a verify.
type EnrollResponse struct {
	Success               bool              `json:"success"`
	Employee              *EmployeeResponse `json:"employee"`
	Message               string            `json:"message"`
	Instructions          string            `json:"instructions,omitempty"`
	NeedsManualEnrollment bool              `json:"needs_manual_enrollment,omitempty"`
	// DegradedAllocation indica que la asignación se hizo sin consultar el
	// dispositivo (servicio caído); el ID sigue siendo válido en el almacén.
	DegradedAllocation bool `json:"degraded_allocation,omitempty"`
}

// VerifyRequest entrada de POST /api/hr/biometric/verify.
type VerifyRequest struct {
	BiometricID int    `json:"biometric_id" validate:"required,min=1,max=9999"`
	DeviceIP    string `json:"device_ip" validate:"required,min=7"`
}

// VerifyResponse salida de verify. Idempotente: success=false deja al empleado
// en ID_RESERVED sin efectos secundarios y el caller puede reintentar.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LinkRequest entrada de POST /api/hr/employees/:id/link.
type LinkRequest struct {
	UID int `json:"uid" validate:"required,min=1,max=9999"`
}

// SyncFingerprintRequest entrada de POST /api/hr/employees/:id/sync.
type SyncFingerprintRequest struct {
	DeviceIP string `json:"device_ip" validate:"required,min=7"`
}
