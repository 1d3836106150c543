package services

import (
	"context"
	"errors"
	"strings"

	"github.com/openclep/clepfinder/internal/app/models/dto"
	"github.com/openclep/clepfinder/internal/app/repositories"
	"github.com/openclep/clepfinder/internal/pkg/apperrors"
	"github.com/openclep/clepfinder/internal/pkg/auth"
	"github.com/openclep/clepfinder/internal/pkg/logger"
)

// AuthService defines the interface for login and token issuance
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

// authServiceImpl implements the AuthService interface.
//
// There is no account store yet: any non-empty email and password pair is
// accepted. A request without a DI code is an admin login, optionally
// checked against a configured bcrypt hash; a request with a DI code is
// an institution login and must resolve to a known institution.
type authServiceImpl struct {
	jwtService        *auth.JWTService
	institutionStore  InstitutionStore
	adminPasswordHash string
}

// NewAuthService creates a new auth service instance
func NewAuthService(jwtService *auth.JWTService, institutionStore InstitutionStore, adminPasswordHash string) AuthService {
	return &authServiceImpl{
		jwtService:        jwtService,
		institutionStore:  institutionStore,
		adminPasswordHash: adminPasswordHash,
	}
}

// Login validates the credentials and issues a role-scoped token.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	if req.DICode == nil {
		return s.loginAdmin(email, req.Password)
	}
	return s.loginInstitution(ctx, email, *req.DICode)
}

func (s *authServiceImpl) loginAdmin(email, password string) (*dto.TokenResponse, error) {
	if s.adminPasswordHash != "" && !auth.CheckPassword(s.adminPasswordHash, password) {
		logger.Warn().Str("email", email).Msg("Admin login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(email, auth.RoleAdmin, 0)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		Role:      auth.RoleAdmin,
	}, nil
}

func (s *authServiceImpl) loginInstitution(ctx context.Context, email string, diCode int64) (*dto.TokenResponse, error) {
	if _, err := s.institutionStore.GetByDICode(ctx, diCode); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Warn().Str("email", email).Int64("diCode", diCode).
				Msg("Institution login for unknown DI code")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	token, expiresIn, err := s.jwtService.GenerateToken(email, auth.RoleInstitution, diCode)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		Role:      auth.RoleInstitution,
		DICode:    diCode,
	}, nil
}
