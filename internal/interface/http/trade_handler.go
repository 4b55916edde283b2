package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greekgang/terminal/config"
	"github.com/greekgang/terminal/internal/application"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/interface/middleware"
	"github.com/greekgang/terminal/pkg/response"
)

// TradeHandler serves the trade ledger.
type TradeHandler struct {
	Trades *application.TradeService
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewTradeHandler(trades *application.TradeService, logger *logrus.Logger, cfg *config.Config) *TradeHandler {
	return &TradeHandler{Trades: trades, Logger: logger, Cfg: cfg}
}

func (h *TradeHandler) List(c *gin.Context) {
	pg, err := h.Trades.List(c.Request.Context(), pageParams(c, h.Cfg.TradesPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(t *entity.Trade) any { return tradeJSON(t) })
}

func (h *TradeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "resource not found", nil)
		return
	}
	t, err := h.Trades.Get(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, tradeJSON(t))
}

// Create records a trade authored by the acting user.
func (h *TradeHandler) Create(c *gin.Context) {
	var in entity.TradeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	t, err := h.Trades.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Header("Location", apiBase+"/trades/"+strconv.FormatInt(t.ID, 10))
	c.JSON(http.StatusCreated, tradeJSON(t))
}

func (h *TradeHandler) Edit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "resource not found", nil)
		return
	}
	var in entity.TradeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	current := middleware.CurrentUser(c)
	t, err := h.Trades.Edit(c.Request.Context(), middleware.CurrentActor(c), current.ID, id, in)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, tradeJSON(t))
}
