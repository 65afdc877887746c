package request_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclinic/internal/api/request"
	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
)

func newRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecode_Register(t *testing.T) {
	var req request.RegisterRequest
	err := request.Decode(newRequest(`{
		"tenant_id": "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f",
		"name": "Ana",
		"email": "ana@clinica.com",
		"password": "segredo123",
		"role": "Doctor"
	}`), &req)

	require.NoError(t, err)
	reg := req.ToDomain()
	assert.Equal(t, domain.RoleDoctor, reg.Role)
	assert.True(t, reg.ShowInAppointmentScheduling)
}

func TestDecode_ValidationMessages(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"json malformado", `{"name":`, "Payload JSON inválido"},
		{"campo desconhecido", `{"foo": 1}`, "Payload JSON inválido"},
		{"email inválido", `{"tenant_id":"6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f","name":"A","email":"x","password":"segredo123"}`, "email deve ser um email válido"},
		{"papel desconhecido", `{"tenant_id":"6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f","name":"A","email":"a@b.com","password":"segredo123","role":"Janitor"}`, "role deve ser um papel válido"},
		{"senha curta", `{"tenant_id":"6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f","name":"A","email":"a@b.com","password":"123"}`, "password deve ter no mínimo 8"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req request.RegisterRequest
			err := request.Decode(newRequest(tc.body), &req)

			var validation *apperror.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Contains(t, validation.Msg, tc.want)
		})
	}
}

func TestDecode_SubdomainNullClears(t *testing.T) {
	var req request.SubdomainRequest
	require.NoError(t, request.Decode(newRequest(`{"subdomain": null}`), &req))
	assert.Nil(t, req.Subdomain)

	require.NoError(t, request.Decode(newRequest(`{"subdomain": "Sorriso"}`), &req))
	require.NotNil(t, req.Subdomain)
	assert.Equal(t, "Sorriso", *req.Subdomain)
}
