// Package device implementa el gateway REST contra el servicio de control de
// dispositivos biométricos (el servicio edge que habla el protocolo propietario
// de los scanners). Este paquete es la única pieza que conoce su contrato de
// cable; el resto del sistema ve el puerto biometric.DeviceGateway.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/beacon-api/internal/application/biometric"
	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/domain/entity"
)

var _ biometric.DeviceGateway = (*Client)(nil)

// Client implementa biometric.DeviceGateway usando el API REST del servicio de
// inscripción. Usa net/http de la stdlib; no requiere librerías de terceros.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. El timeout cubre cada petición completa: el
// servicio a su vez habla UDP con el hardware y puede tardar varios segundos.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras de cable (contrato del servicio de inscripción) ──────────────

type wireUser struct {
	UID            int    `json:"uid"`
	Name           string `json:"name"`
	Privilege      int    `json:"privilege"`
	HasFingerprint bool   `json:"has_fingerprint"`
	Card           int    `json:"card"`
}

type wireUsersResponse struct {
	DeviceIP string     `json:"device_ip"`
	Users    []wireUser `json:"users"`
}

type wireEnrollRequest struct {
	BiometricID int    `json:"biometric_id"`
	Name        string `json:"name"`
	DeviceIP    string `json:"device_ip"`
}

// wireEnrollResponse: FingerprintTemplate viaja como base64; el decoder JSON
// lo materializa directamente en []byte.
type wireEnrollResponse struct {
	Success             bool   `json:"success"`
	BiometricID         int    `json:"biometric_id"`
	FingerprintTemplate []byte `json:"fingerprint_template"`
	Message             string `json:"message"`
	Instructions        string `json:"instructions"`
}

type wireVerifyRequest struct {
	BiometricID int    `json:"biometric_id"`
	DeviceIP    string `json:"device_ip"`
}

type wireVerifyResponse struct {
	Enrolled            bool   `json:"enrolled"`
	BiometricID         int    `json:"biometric_id"`
	FingerprintTemplate []byte `json:"fingerprint_template"`
	Message             string `json:"message"`
}

type wireDevice struct {
	IP             string `json:"ip"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	UsersCount     int    `json:"users_count"`
	TemplatesCount int    `json:"templates_count"`
	DeviceName     string `json:"device_name"`
	Firmware       string `json:"firmware"`
}

type wireError struct {
	Detail string `json:"detail"`
}

// ── Operaciones ──────────────────────────────────────────────────────────────

// ListUsers lista los usuarios almacenados en el dispositivo.
func (c *Client) ListUsers(ctx context.Context, deviceIP string) ([]entity.DeviceUser, error) {
	var out wireUsersResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%s", deviceIP), nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceUnavailable, errDetail(err))
	}
	users := make([]entity.DeviceUser, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, entity.DeviceUser{
			UID:            u.UID,
			Name:           u.Name,
			Privilege:      u.Privilege,
			HasFingerprint: u.HasFingerprint,
			Card:           u.Card,
		})
	}
	return users, nil
}

// ListDevices lista los scanners configurados con su estado.
func (c *Client) ListDevices(ctx context.Context) ([]entity.DeviceInfo, error) {
	var out []wireDevice
	if err := c.do(ctx, http.MethodGet, "/devices", nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceUnavailable, errDetail(err))
	}
	devices := make([]entity.DeviceInfo, 0, len(out))
	for _, d := range out {
		devices = append(devices, entity.DeviceInfo{
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
	return devices, nil
}

// Enroll crea/actualiza el usuario en el dispositivo y devuelve el resultado:
// template inmediato si el scanner ya tenía huella, o instrucciones para la
// captura manual. Un rechazo del servicio llega como ErrEnrollmentFailed con
// el detalle que reportó.
func (c *Client) Enroll(ctx context.Context, deviceIP string, biometricID int, name string) (*biometric.EnrollOutcome, error) {
	in := wireEnrollRequest{BiometricID: biometricID, Name: name, DeviceIP: deviceIP}
	var out wireEnrollResponse
	if err := c.do(ctx, http.MethodPost, "/enroll", in, &out); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEnrollmentFailed, errDetail(err))
	}
	return &biometric.EnrollOutcome{
		Template:     out.FingerprintTemplate,
		Message:      out.Message,
		Instructions: out.Instructions,
	}, nil
}

// Verify consulta si el uid ya tiene huella capturada y recupera el template.
func (c *Client) Verify(ctx context.Context, deviceIP string, biometricID int) (*biometric.VerifyOutcome, error) {
	in := wireVerifyRequest{BiometricID: biometricID, DeviceIP: deviceIP}
	var out wireVerifyResponse
	if err := c.do(ctx, http.MethodPost, "/verify", in, &out); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDeviceUnavailable, errDetail(err))
	}
	return &biometric.VerifyOutcome{
		Enrolled: out.Enrolled,
		Template: out.FingerprintTemplate,
		Message:  out.Message,
	}, nil
}

// DeleteUser borra el usuario y sus templates del dispositivo.
func (c *Client) DeleteUser(ctx context.Context, deviceIP string, uid int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%s/%d", deviceIP, uid), nil, nil); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrDeviceUnavailable, errDetail(err))
	}
	return nil
}

// do ejecuta la petición y decodifica la respuesta. Un status no-2xx se
// convierte en error llevando el campo detail del servicio si está presente.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var we wireError
		if json.Unmarshal(raw, &we) == nil && we.Detail != "" {
			return fmt.Errorf("servicio respondió %d: %s", resp.StatusCode, we.Detail)
		}
		return fmt.Errorf("servicio respondió %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
