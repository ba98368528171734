package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/interfaces/http/dto"
	"github.com/buildpay/backend/internal/interfaces/http/middleware"
)

// requireCompanyID returns the authenticated company ID or writes a 401.
// The JWT middleware guarantees it for authenticated routes; absence
// means the route is misconfigured.
func requireCompanyID(c *gin.Context) (uuid.UUID, bool) {
	companyID, ok := middleware.GetJWTCompanyID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required", middleware.GetRequestID(c)))
		return uuid.Nil, false
	}
	return companyID, true
}

// currentUserID returns the authenticated user ID when present
func currentUserID(c *gin.Context) *uuid.UUID {
	userID, ok := middleware.GetJWTUserID(c)
	if !ok {
		return nil
	}
	return &userID
}

// pathUUID parses a UUID path parameter, writing a 400 on failure
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid "+name+" parameter", middleware.GetRequestID(c)))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional UUID string from a request body
func optionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
