package dto

import "time"

// CreateEmployeeRequest entrada para crear un empleado (password en texto, se hashea en use case).
type CreateEmployeeRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=EMPLOYEE HR IT"`
}

// UpdateEmployeeRequest entrada para actualizar el perfil de un empleado.
// Los campos biométricos NO se actualizan por aquí: eso es territorio exclusivo
// del motor de inscripción (enroll/verify/link/unlink).
type UpdateEmployeeRequest struct {
	Name  string `json:"name" validate:"omitempty,min=1,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=EMPLOYEE HR IT"`
}

// EmployeeResponse salida de un empleado (sin password ni template).
type EmployeeResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Role                string     `json:"role"`
	BiometricID         *int       `json:"biometric_id"`
	FingerprintEnrolled bool       `json:"fingerprint_enrolled"`
	EnrollmentState     string     `json:"enrollment_state"`
	EnrolledAt          *time.Time `json:"enrolled_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string           `json:"token"`
	User  EmployeeResponse `json:"user"`
}

// SyncEmployee entrada del feed de sincronización para nodos edge: solo
// empleados completamente inscritos, template incluido (base64 vía JSON).
type SyncEmployee struct {
	ID                  string     `json:"id"`
	BiometricID         int        `json:"biometric_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	FingerprintTemplate []byte     `json:"fingerprint_template"`
	EnrolledAt          *time.Time `json:"enrolled_at"`
}

// SyncUsersResponse respuesta de GET /api/edge/sync-users.
type SyncUsersResponse struct {
	Users    []SyncEmployee `json:"users"`
	Total    int            `json:"total"`
	SyncedAt time.Time      `json:"synced_at"`
}
