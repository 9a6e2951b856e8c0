package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"omekan/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "created", body: `{"name":"Ada","email":"ada@example.com","password":"correct-horse"}`, wantStatus: http.StatusCreated},
		{name: "malformed json", body: `{"name":`, wantStatus: http.StatusBadRequest},
		{name: "validation", body: `{"name":"Ada","email":"nope","password":"x"}`, svcErr: domain.NewValidationError("email must be a valid email address"), wantStatus: http.StatusBadRequest},
		{name: "email taken", body: `{"name":"Ada","email":"ada@example.com","password":"correct-horse"}`, svcErr: domain.ErrDuplicateEmail, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{err: tt.svcErr, registeredOut: &domain.User{ID: 1, Name: "Ada", Email: "ada@example.com", PasswordHash: "$2a$...", Role: domain.RoleAdmin}}
			rr := httptest.NewRecorder()

			NewAuthController(testLogger, svc).Register(rr, newRequest(http.MethodPost, "/api/register", tt.body, nil, nil))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "ada@example.com", svc.lastRegister.Email)
				assert.NotContains(t, rr.Body.String(), "password", "hash is never serialized")
			}
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "success", body: `{"email":"ada@example.com","password":"correct-horse"}`, wantStatus: http.StatusOK},
		{name: "missing password", body: `{"email":"ada@example.com"}`, wantStatus: http.StatusBadRequest},
		{name: "wrong credentials", body: `{"email":"ada@example.com","password":"nope"}`, svcErr: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{
				err:         tt.svcErr,
				loginResult: &domain.AuthResult{Token: "jwt", User: &domain.User{ID: 1, Email: "ada@example.com", Role: domain.RoleAdmin}},
			}
			rr := httptest.NewRecorder()

			NewAuthController(testLogger, svc).Login(rr, newRequest(http.MethodPost, "/api/login", tt.body, nil, nil))

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			_, data := decodeEnvelope(t, rr)
			var got LoginResponse
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, "jwt", got.Token)
			assert.Equal(t, "Bearer", got.TokenType)
			assert.Equal(t, domain.RoleAdmin, got.User.Role)
		})
	}
}

func TestAuthController_Me(t *testing.T) {
	svc := &fakeAuthService{}
	c := NewAuthController(testLogger, svc)

	rr := httptest.NewRecorder()
	c.Me(rr, newRequest(http.MethodGet, "/api/me", "", nil, &organizerPrincipal))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, organizerPrincipal.UserID, svc.lastMeUserID)

	rr = httptest.NewRecorder()
	c.Me(rr, newRequest(http.MethodGet, "/api/me", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
