package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"clubops/internal/domain/session"
	"clubops/internal/handler/httperr"
	"clubops/internal/infra/db"
	"clubops/internal/pkg/jwt"
	"clubops/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CodeReauthRequired tells the client its token is gone for good and it
	// must run the device re-authentication flow, not retry the request.
	CodeReauthRequired = "REAUTH_REQUIRED"
	// CodeDeviceDisabled marks a device an admin pulled from service.
	CodeDeviceDisabled = "DEVICE_DISABLED"
)

const (
	ctxOperatorIDKey = "operator_id"
	ctxRoleKey       = "operator_role"
	ctxDeviceIDKey   = "device_id"
	ctxLaneIDKey     = "device_lane_id"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
	uow            shared.UnitOfWork
}

func NewAuthMiddleware(tokenValidator TokenValidator, uow shared.UnitOfWork) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
		uow:            uow,
	}
}

// RequireAuth validates the bearer token and the device it was issued to.
// Token failures are terminal for the client session: it must re-authenticate
// rather than retry.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithCode(c, http.StatusUnauthorized, jwt.ErrInvalidToken,
				CodeReauthRequired, "Access token required", nil)
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithCode(c, http.StatusUnauthorized, err,
				CodeReauthRequired, "Invalid or expired token", nil)
			return
		}

		device, err := m.lookupDevice(c, claims.DeviceID)
		if err != nil {
			httperr.AbortWithCode(c, http.StatusUnauthorized, err,
				CodeReauthRequired, "Unknown device", nil)
			return
		}
		if device.Disabled {
			httperr.AbortWithCode(c, http.StatusForbidden, jwt.ErrInvalidToken,
				CodeDeviceDisabled, "Device has been disabled", nil)
			return
		}

		c.Set(ctxOperatorIDKey, claims.OperatorID)
		c.Set(ctxRoleKey, session.OperatorRole(claims.Role))
		c.Set(ctxDeviceIDKey, device.ID)
		c.Set(ctxLaneIDKey, device.LaneID)
		c.Set("jwt_claims", map[string]any{
			"operator_id": claims.OperatorID.String(),
			"role":        claims.Role,
		})
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...session.OperatorRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetOperatorRole(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, jwt.ErrInvalidToken,
				"Internal server error", nil)
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		httperr.AbortWithError(c, http.StatusForbidden, jwt.ErrInvalidToken,
			"Insufficient permissions", nil)
	}
}

func (m *AuthMiddleware) lookupDevice(c *gin.Context, deviceID uuid.UUID) (*shared.DeviceSnapshot, error) {
	var device *shared.DeviceSnapshot
	err := m.uow.WithDB(c.Request.Context(), func(ctx context.Context, dbtx db.DBTX) error {
		var lookupErr error
		device, lookupErr = m.uow.CommandReads().DeviceByID(ctx, dbtx, deviceID)
		return lookupErr
	})
	return device, err
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetOperatorID(c *gin.Context) (uuid.UUID, bool) {
	operatorID, exists := c.Get(ctxOperatorIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := operatorID.(uuid.UUID)
	return id, ok
}

func GetOperatorRole(c *gin.Context) (session.OperatorRole, bool) {
	role, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}

	r, ok := role.(session.OperatorRole)
	return r, ok
}

func GetDeviceLaneID(c *gin.Context) (string, bool) {
	laneID, exists := c.Get(ctxLaneIDKey)
	if !exists {
		return "", false
	}

	id, ok := laneID.(string)
	return id, ok
}
