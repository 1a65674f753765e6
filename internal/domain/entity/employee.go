package entity

import "time"

// Roles válidos para Employee.
const (
	RoleEmployee = "EMPLOYEE"
	RoleHR       = "HR"
	RoleIT       = "IT"
)

// Rango válido de IDs biométricos. El mismo espacio 1..9999 aplica en la base
// de datos y en la tabla de usuarios de cada dispositivo; la unicidad solo se
// garantiza dentro de cada espacio, entre ambos se reconcilia.
const (
	BiometricIDMin = 1
	BiometricIDMax = 9999
)

// Estados de inscripción biométrica derivados de los campos del empleado.
// ENROLLED es terminal; ID_RESERVED es un estado pausado válido que puede
// persistir indefinidamente (inscripción manual pendiente en el hardware).
const (
	EnrollmentUnassigned = "UNASSIGNED"
	EnrollmentReserved   = "ID_RESERVED"
	EnrollmentEnrolled   = "ENROLLED"
)

// Employee representa un empleado de la plataforma.
//
// Los campos biométricos los muta exclusivamente el motor de inscripción:
// BiometricID es un entero 1..9999 único entre todos los empleados cuando está
// presente, y actúa como foreign key blanda hacia el uid del usuario en el
// dispositivo físico (sin integridad referencial entre ambos sistemas).
type Employee struct {
	ID                  string
	Email               string
	PasswordHash        string
	Name                string
	Role                string // EMPLOYEE, HR, IT
	BiometricID         *int
	FingerprintTemplate []byte // template opaco del scanner; puede ser nil incluso con FingerprintEnrolled=true (ver Link)
	FingerprintEnrolled bool
	EnrolledAt          *time.Time
	EnrolledBy          *string // empleado HR/IT que realizó la inscripción
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EnrollmentState deriva el estado de la máquina de inscripción.
// Invariante: FingerprintEnrolled=true implica BiometricID no nulo.
// La presencia del template NO está garantizada en ENROLLED: la operación de
// vinculación manual marca enrolled basándose solo en lo que reporta el
// dispositivo, y el template se recupera después con un sync.
func (e *Employee) EnrollmentState() string {
	switch {
	case e.FingerprintEnrolled:
		return EnrollmentEnrolled
	case e.BiometricID != nil:
		return EnrollmentReserved
	default:
		return EnrollmentUnassigned
	}
}

// ValidBiometricID indica si id está dentro del rango permitido.
func ValidBiometricID(id int) bool {
	return id >= BiometricIDMin && id <= BiometricIDMax
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleHR || role == RoleIT
}
