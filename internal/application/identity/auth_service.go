package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/buildpay/backend/internal/domain/identity"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/infrastructure/auth"
)

// AuthService handles login and token refresh
type AuthService struct {
	userRepo identity.UserRepository
	jwt      *auth.JWTService
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwt *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		logger:   logger,
	}
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued tokens and basic user info
type LoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Name   string          `json:"name"`
	Role   string          `json:"role"`
}

// Login verifies credentials and issues a token pair. Invalid email and
// invalid password return the same error so the endpoint does not leak
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	invalidCredentials := shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, invalidCredentials
	}

	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account has been deactivated")
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("Failed login attempt", zap.String("email", req.Email))
		return nil, invalidCredentials
	}

	tokens, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		CompanyID: user.CompanyID,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()),
	)

	return &LoginResponse{
		Tokens: tokens,
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	tokens, err := s.jwt.RefreshTokenPair(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_REFRESH_TOKEN", "Refresh token is invalid or expired")
	}
	return tokens, nil
}
