package dto

// LinkedEmployee referencia mínima del empleado vinculado a un uid de dispositivo.
type LinkedEmployee struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	FingerprintEnrolled bool   `json:"fingerprint_enrolled"`
}

// DeviceUserResponse un usuario del dispositivo anotado con el empleado (si existe)
// cuyo biometric_id coincide con su uid. LinkedEmployee=nil señala deriva: un
// usuario creado en el hardware por fuera de esta plataforma.
type DeviceUserResponse struct {
	UID            int             `json:"uid"`
	Name           string          `json:"name"`
	HasFingerprint bool            `json:"has_fingerprint"`
	LinkedEmployee *LinkedEmployee `json:"linked_employee,omitempty"`
}

// DeviceUsersResponse salida de GET /api/hr/biometric/devices/:ip/users.
type DeviceUsersResponse struct {
	DeviceIP string               `json:"device_ip"`
	Users    []DeviceUserResponse `json:"users"`
}

// DeviceResponse un scanner configurado con su estado.
type DeviceResponse struct {
	IP             string `json:"ip"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	UsersCount     int    `json:"users_count"`
	TemplatesCount int    `json:"templates_count"`
	DeviceName     string `json:"device_name,omitempty"`
	Firmware       string `json:"firmware,omitempty"`
}

// DevicesResponse salida de GET /api/hr/biometric/devices.
type DevicesResponse struct {
	Devices []DeviceResponse `json:"devices"`
}
