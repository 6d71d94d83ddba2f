package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docgate-backend/internal/admin"
	"docgate-backend/internal/documents"
	"docgate-backend/internal/identity"
	"docgate-backend/internal/passwordreset"
	"docgate-backend/internal/profiles"
	"docgate-backend/internal/shared/config"
	"docgate-backend/internal/shared/server/middleware"
	"docgate-backend/internal/shared/server/respond"
)

const resetRateGroup = "RESET"

// RouterDeps carries everything the router wires together. Handlers
// left nil are simply not mounted, which keeps focused tests small.
type RouterDeps struct {
	Config          config.Config
	Verifier        identity.Verifier
	Gate            middleware.ProfileGate
	ProfileHandler  *profiles.Handler
	ResetHandler    *passwordreset.Handler
	DocumentHandler *documents.Handler
	AdminHandler    *admin.Handler
	DB              *sql.DB
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api")
	api.GET("/health", health(deps.DB))

	if deps.ResetHandler != nil {
		// The reset endpoints run without a credential, so they are
		// throttled per client IP.
		resetRoutes := api.Group("/auth")
		resetRoutes.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				resetRateGroup: {Rate: 0.2, Burst: 3},
			},
			DefaultGroup: resetRateGroup,
			Limiter:      deps.RateLimiter,
		}))
		deps.ResetHandler.RegisterRoutes(resetRoutes)
	}

	if deps.ProfileHandler != nil {
		profileRoutes := api.Group("/auth")
		profileRoutes.Use(middleware.Auth(deps.Verifier))
		deps.ProfileHandler.RegisterRoutes(profileRoutes)
	}

	if deps.DocumentHandler != nil {
		documentRoutes := api.Group("/documents")
		documentRoutes.Use(
			middleware.Auth(deps.Verifier),
			middleware.RequireProfile(deps.Gate),
		)
		deps.DocumentHandler.RegisterRoutes(documentRoutes)
	}

	if deps.AdminHandler != nil {
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(
			middleware.Auth(deps.Verifier),
			middleware.RequireAdmin(deps.Gate),
		)
		deps.AdminHandler.RegisterRoutes(adminRoutes)
	}

	return r
}

func health(sqlDB *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sqlDB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := sqlDB.PingContext(ctx); err != nil {
				respond.JSON(c, http.StatusServiceUnavailable, gin.H{"ok": false, "db": "down"})
				return
			}
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
