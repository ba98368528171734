package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/infrastructure/auth"
	"github.com/buildpay/backend/internal/infrastructure/logger"
	"github.com/buildpay/backend/internal/interfaces/http/dto"
)

// Context keys for authenticated request data
const (
	JWTClaimsKey  = "jwt_claims"
	JWTCompanyKey = "jwt_company_id"
	JWTUserKey    = "jwt_user_id"
)

// JWTConfig holds JWT middleware configuration
type JWTConfig struct {
	JWTService *auth.JWTService
	// SkipPaths lists path prefixes exempt from authentication
	SkipPaths []string
}

// JWT returns JWT authentication middleware
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTWithConfig(JWTConfig{JWTService: jwtService})
}

// JWTWithConfig returns JWT authentication middleware with custom configuration
func JWTWithConfig(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range cfg.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", err.Error())
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			code, message := authErrorCode(err)
			abortUnauthorized(c, code, message)
			return
		}

		companyID, err := claims.GetCompanyUUID()
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "invalid company in token")
			return
		}
		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "invalid user in token")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTCompanyKey, companyID)
		c.Set(JWTUserKey, userID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithCompanyID(ctx, log, claims.CompanyID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("authorization header must be a bearer token")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}

func authErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "TOKEN_EXPIRED", "token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "TOKEN_NOT_YET_VALID", "token is not yet valid"
	case errors.Is(err, auth.ErrInvalidTokenType):
		return "INVALID_TOKEN", "wrong token type"
	default:
		return "INVALID_TOKEN", "invalid token"
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, GetRequestID(c)))
}

// GetJWTClaims returns the authenticated claims, if present
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTCompanyID returns the authenticated company ID, if present
func GetJWTCompanyID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(JWTCompanyKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// GetJWTUserID returns the authenticated user ID, if present
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(JWTUserKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
