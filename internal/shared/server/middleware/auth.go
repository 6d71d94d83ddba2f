package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docgate-backend/internal/identity"
	"docgate-backend/internal/shared/server/respond"
	"docgate-backend/internal/shared/telemetry"
)

const (
	accessKey     = "access"
	identityIDKey = "identityId"
)

// AccessContext carries the verified caller identity through a request.
// Role is populated once RequireProfile or RequireAdmin has run.
type AccessContext struct {
	Identity identity.Identity
	Role     identity.Role
}

// ProfileGate reports the stored role for an identity. ok is false when
// no profile exists for the identity.
type ProfileGate interface {
	RoleFor(ctx context.Context, id identity.ID) (role identity.Role, ok bool, err error)
}

// Auth verifies the bearer credential on every request and stores the
// resulting AccessContext. Credentials are never cached across requests.
func Auth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
			return
		}

		ident, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			// Provider unreachability is logged distinctly but surfaced
			// to the caller the same as an invalid credential.
			if errors.Is(err, identity.ErrUpstream) {
				telemetry.Error("auth.upstream_failure", map[string]any{
					"request_id": RequestIDFromContext(c),
					"path":       c.Request.URL.Path,
					"error":      err.Error(),
				})
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid or expired credential", nil)
			return
		}

		c.Set(accessKey, &AccessContext{Identity: ident})
		c.Set(identityIDKey, string(ident.ID))
		c.Next()
	}
}

// RequireProfile ensures the caller has a provisioned profile, attaching
// its role to the access context. Used on write paths where an
// unprovisioned caller is an error rather than a reason to provision.
func RequireProfile(gate ProfileGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := Access(c)
		if access == nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
			return
		}
		role, ok, err := gate.RoleFor(c.Request.Context(), access.Identity.ID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
			return
		}
		if !ok {
			respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
			return
		}
		access.Role = role
		c.Next()
	}
}

// RequireAdmin passes through only callers whose profile role is admin.
func RequireAdmin(gate ProfileGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := Access(c)
		if access == nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer credential", nil)
			return
		}
		role, ok, err := gate.RoleFor(c.Request.Context(), access.Identity.ID)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify admin status", nil)
			return
		}
		if !ok || role != identity.RoleAdmin {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin access required", nil)
			return
		}
		access.Role = role
		c.Next()
	}
}

// Access fetches the AccessContext stored by the Auth middleware.
func Access(c *gin.Context) *AccessContext {
	if c == nil {
		return nil
	}
	val, _ := c.Get(accessKey)
	if access, ok := val.(*AccessContext); ok {
		return access
	}
	return nil
}
