package api

import (
	stdhttp "net/http"

	intconfig "sessiondesk/internal/config"
	h "sessiondesk/internal/http/handlers"
	"sessiondesk/internal/http/middleware"
	"sessiondesk/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires middleware and the session endpoints. Without a JWT secret
// outside production the caller identity comes from X-Tutor-ID / X-Role.
func NewRouter(env intconfig.Env, sessions *h.SessionHandler) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.AllowedOrigins()),
		middleware.RateLimit(env.RateLimitRPS, env.RateLimitBurst),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.GetLogger().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.Auth(env.JWTSecret)
	if env.JWTSecret == "" && !env.IsProduction() {
		utils.GetLogger().Warn("JWT_SECRET not set, trusting X-Tutor-ID and X-Role headers")
		auth = middleware.AuthOptional()
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.JournalCheck)
		api.GET("/routes", h.Routes)

		tutor := api.Group("/tutor", auth)
		tutor.GET("/sessions", sessions.ListSessions)
		tutor.POST("/sessions/refresh", sessions.RefreshSessions)
		tutor.PUT("/sessions/:id", sessions.UpdateSession)
		tutor.DELETE("/sessions/:id", sessions.DeleteSession)
		tutor.GET("/sessions/:id/payment", sessions.GetPayment)
		tutor.PUT("/sessions/:id/payment", sessions.UpsertPayment)

		admin := api.Group("/admin", auth, middleware.RequireRoles("admin"))
		admin.GET("/sessions", sessions.AdminSessions)
		admin.GET("/journal", sessions.AdminJournal)
	}

	h.SetRouter(r)
	return r
}
