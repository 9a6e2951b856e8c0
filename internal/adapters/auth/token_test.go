package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"omekan/internal/domain"
)

func TestJWT_Issue(t *testing.T) {
	secret := "test-secret"
	signer := NewJWT(secret, "omekan")

	token, err := signer.Issue(domain.Principal{UserID: 123, Email: "u@example.com", Role: domain.RoleOrganizer}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "123", claims.Subject)
	assert.Equal(t, "omekan", claims.Issuer)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "organizer", claims.Role)
}

func TestJWT_Verify(t *testing.T) {
	signer := NewJWT("test-secret", "omekan")
	p := domain.Principal{UserID: 7, Email: "a@example.com", Role: domain.RoleAdmin}

	valid, err := signer.Issue(p, time.Hour)
	require.NoError(t, err)
	expired, err := signer.Issue(p, -time.Minute)
	require.NoError(t, err)
	foreign, err := NewJWT("other-secret", "omekan").Issue(p, time.Hour)
	require.NoError(t, err)
	otherIssuer, err := NewJWT("test-secret", "someone-else").Issue(p, time.Hour)
	require.NoError(t, err)
	badRole, err := signer.Issue(domain.Principal{UserID: 7, Role: "root"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    domain.Principal
		wantErr bool
	}{
		{name: "valid", token: valid, want: p},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: foreign, wantErr: true},
		{name: "wrong issuer", token: otherIssuer, wantErr: true},
		{name: "unknown role", token: badRole, wantErr: true},
		{name: "garbage", token: "not.a.token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := signer.Verify(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJWT_Verify_rejects_none_algorithm(t *testing.T) {
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "omekan",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWT("test-secret", "omekan").Verify(token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
