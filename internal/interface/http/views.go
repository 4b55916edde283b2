package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/pkg/pagination"
	"github.com/greekgang/terminal/pkg/response"
)

const apiBase = "/api/v1"

// apiError translates the domain error taxonomy to HTTP statuses. Anything
// outside the taxonomy is a 500 with the detail kept out of the body.
func apiError(c *gin.Context, err error) {
	switch {
	case domainerr.IsValidation(err):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domainerr.ErrNotFound):
		response.Error(c, http.StatusNotFound, "resource not found", nil)
	case errors.Is(err, domainerr.ErrForbidden):
		response.Error(c, http.StatusForbidden, "insufficient permissions", nil)
	case errors.Is(err, domainerr.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// pageParams reads ?page and normalizes against the configured page size.
func pageParams(c *gin.Context, perPage int) pagination.Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	return pagination.Params{Page: page, PerPage: perPage}.Normalize(perPage)
}

func userJSON(u *entity.User, tradeCount int64) gin.H {
	return gin.H{
		"url":                 apiBase + "/users/" + u.Username,
		"username":            u.Username,
		"name":                u.Name,
		"location":            u.Location,
		"about_me":            u.AboutMe,
		"member_since":        u.MemberSince,
		"last_seen":           u.LastSeen,
		"avatar_url":          u.GravatarURL(128),
		"trades_url":          apiBase + "/users/" + u.Username + "/trades/",
		"followed_trades_url": apiBase + "/users/" + u.Username + "/timeline/",
		"trade_count":         tradeCount,
	}
}

func stockJSON(s *entity.Stock, logoURL string) gin.H {
	out := gin.H{
		"url":       apiBase + "/stocks/" + s.Ticker,
		"name":      s.Name,
		"ticker":    s.Ticker,
		"sector":    s.Sector,
		"is_active": s.IsActive,
		"year_high": s.YearHigh,
		"year_low":  s.YearLow,
	}
	if logoURL != "" {
		out["logo_url"] = logoURL
	}
	return out
}

func tradeJSON(t *entity.Trade) gin.H {
	out := gin.H{
		"url":       apiBase + "/trades/" + strconv.FormatInt(t.ID, 10),
		"timestamp": t.Timestamp,
		"quantity":  t.Quantity,
		"price":     t.Price,
	}
	if t.Stock != nil {
		out["stock"] = t.Stock.Ticker
	}
	if t.User != nil {
		out["user"] = t.User.Username
	}
	return out
}

func watchJSON(w *entity.Watch) gin.H {
	return gin.H{
		"url":       apiBase + "/users/" + w.User.Username + "/unwatch/" + w.Stock.Ticker,
		"user":      w.User.Username,
		"stock":     w.Stock.Ticker,
		"timestamp": w.Timestamp,
	}
}

func followJSON(f *entity.Follow, other *entity.User) gin.H {
	return gin.H{
		"url":       apiBase + "/users/" + other.Username,
		"username":  other.Username,
		"timestamp": f.Timestamp,
	}
}
