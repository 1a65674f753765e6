package entity

// DeviceUser es la proyección de un usuario almacenado en un dispositivo
// biométrico, tal como la reporta el servicio de control de dispositivos.
// Solo existe durante una consulta de listado; nunca se persiste.
type DeviceUser struct {
	UID            int
	Name           string
	Privilege      int
	HasFingerprint bool
	Card           int
}

// DeviceInfo describe un scanner configurado y su estado reportado.
type DeviceInfo struct {
	IP             string
	Name           string
	Location       string
	Status         string // online, offline, unknown
	UsersCount     int
	TemplatesCount int
	DeviceName     string
	Firmware       string
}
