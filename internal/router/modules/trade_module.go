package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/greekgang/terminal/internal/domain/entity"
	handlers "github.com/greekgang/terminal/internal/interface/http"
	"github.com/greekgang/terminal/internal/interface/middleware"
)

// TradeModule wires the trade ledger. Reads are public; recording and
// editing need the write permission.
type TradeModule struct {
	Handler *handlers.TradeHandler
}

func NewTrade(h *handlers.TradeHandler) *TradeModule {
	return &TradeModule{Handler: h}
}

func (m *TradeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/trades/", m.Handler.List)
	rg.GET("/trades/:id", m.Handler.Get)

	write := middleware.RequirePermission(entity.PermWrite)
	rg.POST("/trades/", write, m.Handler.Create)
	rg.PUT("/trades/:id", write, m.Handler.Edit)
}
