package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmployeeNotFound   = errors.New("empleado no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrInvalidBiometricID el ID biométrico está fuera del rango válido 1..9999.
	ErrInvalidBiometricID = errors.New("biometric id fuera de rango (1-9999)")
	// ErrIDSpaceExhausted no queda ningún ID libre en 1..9999; un operador debe liberar uno.
	ErrIDSpaceExhausted = errors.New("no hay IDs biométricos disponibles (1-9999 agotados)")
	// ErrNotReserved la operación requiere un empleado con ID biométrico asignado.
	ErrNotReserved = errors.New("el empleado no tiene ID biométrico asignado")
	// ErrDeviceUnavailable el servicio de control de dispositivos no respondió.
	ErrDeviceUnavailable = errors.New("dispositivo biométrico no disponible")
	// ErrEnrollmentFailed el dispositivo rechazó o falló la inscripción.
	ErrEnrollmentFailed = errors.New("la inscripción en el dispositivo falló")
)

// BiometricConflictError indica que un ID biométrico ya está asignado a otro empleado.
//
// Retryable distingue los dos orígenes del conflicto:
//   - false: el operador eligió un ID que ya está tomado; reintentar con el mismo ID
//     es inútil, debe elegir otro.
//   - true: el motor auto-asignó un ID y perdió la carrera contra otro asignador
//     concurrente (pre-chequeo desactualizado o violación de unicidad al escribir);
//     el caller debe reintentar la asignación completa.
type BiometricConflictError struct {
	BiometricID int
	HolderID    string
	HolderName  string
	Retryable   bool
}

func (e *BiometricConflictError) Error() string {
	holder := e.HolderName
	if holder == "" {
		holder = "otro empleado"
	}
	if e.Retryable {
		return fmt.Sprintf("el ID biométrico %d auto-asignado ya fue tomado por %s; reintentar la asignación", e.BiometricID, holder)
	}
	return fmt.Sprintf("el ID biométrico %d ya está en uso por %s", e.BiometricID, holder)
}

// IsBiometricConflict extrae el BiometricConflictError de una cadena de errores.
func IsBiometricConflict(err error) (*BiometricConflictError, bool) {
	var conflict *BiometricConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}
