package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Retryable solo se incluye en conflictos de asignación biométrica:
	// true indica que el caller puede reintentar la asignación completa.
	Retryable *bool `json:"retryable,omitempty"`
}

// OKResponse respuesta mínima de éxito para operaciones sin cuerpo.
type OKResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
