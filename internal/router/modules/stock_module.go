package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/greekgang/terminal/internal/domain/entity"
	handlers "github.com/greekgang/terminal/internal/interface/http"
	"github.com/greekgang/terminal/internal/interface/middleware"
)

// StockModule wires the catalog. Reads are public, writes are
// administrator-only.
type StockModule struct {
	Handler *handlers.StockHandler
}

func NewStock(h *handlers.StockHandler) *StockModule {
	return &StockModule{Handler: h}
}

func (m *StockModule) Register(rg *gin.RouterGroup) {
	rg.GET("/stocks/", m.Handler.List)
	rg.GET("/stocks/:ticker", m.Handler.Get)

	admin := middleware.RequirePermission(entity.PermAdmin)
	rg.POST("/stocks/", admin, m.Handler.Create)
	rg.PUT("/stocks/:ticker", admin, m.Handler.Edit)
	rg.POST("/stocks/:ticker/logo", admin, m.Handler.UploadLogo)

	rg.GET("/search/stocks", m.Handler.SearchStocks)
}
