package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greekgang/terminal/config"
	"github.com/greekgang/terminal/internal/application"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/interface/middleware"
	"github.com/greekgang/terminal/pkg/response"
	"github.com/greekgang/terminal/pkg/validation"
)

// UserHandler serves profiles, the social graph and the per-user trade views.
type UserHandler struct {
	Users  *application.UserService
	Trades *application.TradeService
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewUserHandler(users *application.UserService, trades *application.TradeService, logger *logrus.Logger, cfg *config.Config) *UserHandler {
	return &UserHandler{Users: users, Trades: trades, Logger: logger, Cfg: cfg}
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		apiError(c, err)
		return
	}
	count, err := h.Trades.CountByUser(c.Request.Context(), u.ID)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(u, count))
}

func (h *UserHandler) List(c *gin.Context) {
	pg, err := h.Users.List(c.Request.Context(), pageParams(c, h.Cfg.UsersPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(u *entity.User) any { return userJSON(u, 0) })
}

type profileRequest struct {
	Name     string `json:"name" binding:"max=64"`
	Location string `json:"location" binding:"max=64"`
	AboutMe  string `json:"about_me" binding:"max=1024"`
}

// UpdateProfile edits the named profile. Users edit themselves;
// administrators may edit anyone.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	target, err := h.Users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		apiError(c, err)
		return
	}
	current := middleware.CurrentUser(c)
	if current.ID != target.ID && !middleware.CurrentActor(c).Can(entity.PermAdmin) {
		response.Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return
	}
	if err := h.Users.UpdateProfile(c.Request.Context(), target, application.UpdateProfileInput{
		Name:     req.Name,
		Location: req.Location,
		AboutMe:  req.AboutMe,
	}); err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(target, 0))
}

func (h *UserHandler) UserTrades(c *gin.Context) {
	pg, err := h.Trades.ListByUser(c.Request.Context(), c.Param("username"), pageParams(c, h.Cfg.TradesPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(t *entity.Trade) any { return tradeJSON(t) })
}

// Timeline serves the followed-trades feed. It is private to its owner.
func (h *UserHandler) Timeline(c *gin.Context) {
	if !h.requireSelf(c) {
		return
	}
	pg, err := h.Trades.Timeline(c.Request.Context(), c.Param("username"), pageParams(c, h.Cfg.TradesPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(t *entity.Trade) any { return tradeJSON(t) })
}

func (h *UserHandler) Followers(c *gin.Context) {
	pg, err := h.Users.Followers(c.Request.Context(), c.Param("username"), pageParams(c, h.Cfg.FollowersPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(f *entity.Follow) any { return followJSON(f, f.Follower) })
}

func (h *UserHandler) Followed(c *gin.Context) {
	pg, err := h.Users.Followed(c.Request.Context(), c.Param("username"), pageParams(c, h.Cfg.FollowersPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(f *entity.Follow) any { return followJSON(f, f.Followed) })
}

// Follow adds an edge from the acting user to the named user. Repeating the
// call changes nothing and still succeeds.
func (h *UserHandler) Follow(c *gin.Context) {
	current := middleware.CurrentUser(c)
	target, err := h.Users.Follow(c.Request.Context(), current, c.Param("username"))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"username": target.Username}, "following")
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if _, err := h.Users.Unfollow(c.Request.Context(), current, c.Param("username")); err != nil {
		apiError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Watchlist is private to its owner.
func (h *UserHandler) Watchlist(c *gin.Context) {
	if !h.requireSelf(c) {
		return
	}
	current := middleware.CurrentUser(c)
	pg, err := h.Users.Watchlist(c.Request.Context(), current, pageParams(c, h.Cfg.WatchlistPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(w *entity.Watch) any { return watchJSON(w) })
}

func (h *UserHandler) Watch(c *gin.Context) {
	if !h.requireSelf(c) {
		return
	}
	current := middleware.CurrentUser(c)
	w, err := h.Users.Watch(c.Request.Context(), current, c.Param("ticker"))
	if err != nil {
		apiError(c, err)
		return
	}
	c.Header("Location", apiBase+"/users/"+current.Username+"/unwatch/"+w.Stock.Ticker)
	c.JSON(http.StatusCreated, watchJSON(w))
}

func (h *UserHandler) Unwatch(c *gin.Context) {
	if !h.requireSelf(c) {
		return
	}
	current := middleware.CurrentUser(c)
	if err := h.Users.Unwatch(c.Request.Context(), current, c.Param("ticker")); err != nil {
		apiError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}
	pg, err := h.Users.SearchUsers(c.Request.Context(), q, pageParams(c, h.Cfg.UsersPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(doc map[string]any) any { return doc })
}

// requireSelf rejects requests where the path user is not the acting user.
func (h *UserHandler) requireSelf(c *gin.Context) bool {
	current := middleware.CurrentUser(c)
	if current == nil {
		response.Error(c, http.StatusUnauthorized, "authentication required", nil)
		return false
	}
	if current.Username != c.Param("username") {
		response.Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return false
	}
	return true
}
