package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greekgang/terminal/internal/container"
	handlers "github.com/greekgang/terminal/internal/interface/http"
	"github.com/greekgang/terminal/internal/interface/middleware"
)

// AuthModule wires registration, token issuance and the signed-token account
// flows. The credential routes carry tight per-IP budgets.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuth(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	tokenLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/tokens", tokenLimiter, middleware.RequireConfirmed(), m.Handler.Tokens)
	rg.POST("/reset", resetLimiter, m.Handler.RequestPasswordReset)
	rg.PUT("/reset/:token", resetLimiter, m.Handler.ResetPassword)

	// Confirmation must stay reachable for unconfirmed accounts.
	authed := rg.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("/confirm", m.Handler.ResendConfirmation)
		authed.POST("/confirm/:token", m.Handler.Confirm)
	}

	confirmed := rg.Group("/")
	confirmed.Use(middleware.RequireConfirmed())
	{
		confirmed.PUT("/change-password", m.Handler.ChangePassword)
		confirmed.POST("/change-email", m.Handler.RequestEmailChange)
		confirmed.PUT("/change-email/:token", m.Handler.ChangeEmail)
		confirmed.DELETE("/account", m.Handler.DeleteAccount)
	}
}
