package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclep/clepfinder/internal/app/models/dto"
	"github.com/openclep/clepfinder/internal/pkg/auth"
)

func newTestAuthService(t *testing.T, adminHash string) AuthService {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret-key-that-is-long-enough",
		TokenExp:    time.Hour,
		TokenIssuer: "clepfinder-test",
	})
	return NewAuthService(jwtService, defaultInstitutionStore(), adminHash)
}

func int64Ptr(v int64) *int64 { return &v }

func TestLoginAdminIssuesToken(t *testing.T) {
	svc := newTestAuthService(t, "")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@clepfinder.org",
		Password: "anything",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, resp.Role)
	assert.NotEmpty(t, resp.Token)
	assert.Zero(t, resp.DICode)
}

func TestLoginAdminChecksConfiguredHash(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	svc := newTestAuthService(t, hash)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@clepfinder.org",
		Password: "wrong",
	})
	assert.Error(t, err)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@clepfinder.org",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, resp.Role)
}

func TestLoginInstitution(t *testing.T) {
	svc := newTestAuthService(t, "")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "registrar@alpha.edu",
		Password: "anything",
		DICode:   int64Ptr(1426),
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleInstitution, resp.Role)
	assert.Equal(t, int64(1426), resp.DICode)
}

func TestLoginInstitutionUnknownDICode(t *testing.T) {
	svc := newTestAuthService(t, "")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "registrar@alpha.edu",
		Password: "anything",
		DICode:   int64Ptr(9999),
	})
	assert.Error(t, err)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	svc := newTestAuthService(t, "")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "", Password: "x"})
	assert.Error(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "a@b.c", Password: ""})
	assert.Error(t, err)
}
