package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/greekgang/terminal/internal/domain/entity"
	handlers "github.com/greekgang/terminal/internal/interface/http"
	"github.com/greekgang/terminal/internal/interface/middleware"
)

// UserModule wires profiles, the social graph and the per-user trade feeds.
// Profile and follower reads are public; the timeline and watchlist are
// private to their owner; follow and watch actions need a confirmed account.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUser(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/users/", m.Handler.List)
	rg.GET("/users/:username", m.Handler.Get)
	rg.PUT("/users/:username", middleware.RequireConfirmed(), m.Handler.UpdateProfile)

	rg.GET("/users/:username/trades/", m.Handler.UserTrades)
	rg.GET("/users/:username/timeline/", middleware.RequireConfirmed(), m.Handler.Timeline)
	rg.GET("/users/:username/followers/", m.Handler.Followers)
	rg.GET("/users/:username/followed/", m.Handler.Followed)

	follow := middleware.RequirePermission(entity.PermFollow)
	rg.POST("/users/:username/follow", follow, m.Handler.Follow)
	rg.DELETE("/users/:username/follow", follow, m.Handler.Unfollow)

	rg.GET("/users/:username/watchlist/", middleware.RequireConfirmed(), m.Handler.Watchlist)
	rg.POST("/users/:username/watch/:ticker", middleware.RequireConfirmed(), m.Handler.Watch)
	rg.DELETE("/users/:username/unwatch/:ticker", middleware.RequireConfirmed(), m.Handler.Unwatch)

	rg.GET("/search/users", m.Handler.SearchUsers)
}
