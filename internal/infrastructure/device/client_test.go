package device_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/beacon-api/internal/domain"
	"github.com/jhoicas/beacon-api/internal/infrastructure/device"
)

func newTestClient(handler http.HandlerFunc) (*device.Client, func()) {
	srv := httptest.NewServer(handler)
	return device.NewClient(srv.URL, 0), srv.Close
}

func TestListUsers_DecodificaUsuarios(t *testing.T) {
	client, cleanup := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/10.0.0.5", r.URL.Path)
		fmt.Fprint(w, `{"device_ip":"10.0.0.5","users":[
			{"uid":1,"name":"Juan","privilege":0,"has_fingerprint":true,"card":0},
			{"uid":7,"name":"María","privilege":14,"has_fingerprint":false,"card":123}
		]}`)
	})
	defer cleanup()

	users, err := client.ListUsers(context.Background(), "10.0.0.5")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 1, users[0].UID)
	assert.True(t, users[0].HasFingerprint)
	assert.Equal(t, "María", users[1].Name)
	assert.Equal(t, 14, users[1].Privilege)
}

func TestListUsers_ErrorDeRedEsDeviceUnavailable(t *testing.T) {
	client := device.NewClient("http://127.0.0.1:1", 0) // puerto cerrado
	_, err := client.ListUsers(context.Background(), "10.0.0.5")
	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
}

func TestEnroll_TemplateViajaEnBase64(t *testing.T) {
	rawTemplate := []byte{0x01, 0x02, 0xFF, 0xFE}
	client, cleanup := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/enroll", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(42), body["biometric_id"])
		assert.Equal(t, "Juan Pérez", body["name"])
		assert.Equal(t, "10.0.0.5", body["device_ip"])

		fmt.Fprintf(w, `{"success":true,"biometric_id":42,"fingerprint_template":%q,"message":"ok"}`,
			base64.StdEncoding.EncodeToString(rawTemplate))
	})
	defer cleanup()

	outcome, err := client.Enroll(context.Background(), "10.0.0.5", 42, "Juan Pérez")
	require.NoError(t, err)
	assert.Equal(t, rawTemplate, outcome.Template, "el base64 del cable debe llegar como bytes crudos")
	assert.False(t, outcome.PendingManual())
}

func TestEnroll_SinTemplateQuedaPendiente(t *testing.T) {
	client, cleanup := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"success":true,"biometric_id":42,"message":"usuario creado","instructions":"capture la huella en el lector"}`)
	})
	defer cleanup()

	outcome, err := client.Enroll(context.Background(), "10.0.0.5", 42, "Juan")
	require.NoError(t, err)
	assert.True(t, outcome.PendingManual())
	assert.Equal(t, "capture la huella en el lector", outcome.Instructions)
}

func TestEnroll_RechazoPropagaElDetalle(t *testing.T) {
	client, cleanup := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"detail":"dispositivo ocupado por otra inscripción"}`)
	})
	defer cleanup()

	_, err := client.Enroll(context.Background(), "10.0.0.5", 42, "Juan")
	require.ErrorIs(t, err, domain.ErrEnrollmentFailed)
	assert.Contains(t, err.Error(), "dispositivo ocupado por otra inscripción")
}

func TestVerify_DecodificaResultado(t *testing.T) {
	client, cleanup := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		fmt.Fprintf(w, `{"enrolled":true,"biometric_id":5,"fingerprint_template":%q,"message":"capturada"}`,
			base64.StdEncoding.EncodeToString([]byte("tpl")))
	})
	defer cleanup()

	outcome, err := client.Verify(context.Background(), "10.0.0.5", 5)
	require.NoError(t, err)
	assert.True(t, outcome.Enrolled)
	assert.Equal(t, []byte("tpl"), outcome.Template)
}

func TestDeleteUser_ConstruyeLaRuta(t *testing.T) {
	var path, method string
	client, cleanup := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		fmt.Fprint(w, `{"success":true}`)
	})
	defer cleanup()

	require.NoError(t, client.DeleteUser(context.Background(), "10.0.0.5", 7))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/users/10.0.0.5/7", path)
}

func TestListDevices_DecodificaCatalogo(t *testing.T) {
	client, cleanup := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/devices", r.URL.Path)
		fmt.Fprint(w, `[{"ip":"10.0.0.5","name":"Entrada","location":"Recepción","status":"online","users_count":12,"templates_count":10,"device_name":"K40","firmware":"Ver 6.60"}]`)
	})
	defer cleanup()

	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Entrada", devices[0].Name)
	assert.Equal(t, 12, devices[0].UsersCount)
	assert.Equal(t, "Ver 6.60", devices[0].Firmware)
}
