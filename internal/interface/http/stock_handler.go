package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greekgang/terminal/config"
	"github.com/greekgang/terminal/internal/application"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/pkg/response"
)

// StockHandler serves the catalog. Reads are open; writes are gated on the
// administrator permission at the router.
type StockHandler struct {
	Stocks *application.StockService
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewStockHandler(stocks *application.StockService, logger *logrus.Logger, cfg *config.Config) *StockHandler {
	return &StockHandler{Stocks: stocks, Logger: logger, Cfg: cfg}
}

func (h *StockHandler) List(c *gin.Context) {
	pg, err := h.Stocks.List(c.Request.Context(), pageParams(c, h.Cfg.StocksPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(s *entity.Stock) any { return stockJSON(s, h.Stocks.LogoURL(s)) })
}

func (h *StockHandler) Get(c *gin.Context) {
	s, err := h.Stocks.GetByTicker(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockJSON(s, h.Stocks.LogoURL(s)))
}

// Create accepts the raw catalog payload. Field validation lives with the
// entity so the API reports the same messages everywhere.
func (h *StockHandler) Create(c *gin.Context) {
	var in entity.StockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	s, err := h.Stocks.Create(c.Request.Context(), in)
	if err != nil {
		apiError(c, err)
		return
	}
	c.Header("Location", apiBase+"/stocks/"+s.Ticker)
	c.JSON(http.StatusCreated, stockJSON(s, ""))
}

func (h *StockHandler) Edit(c *gin.Context) {
	var in application.EditStockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	s, err := h.Stocks.Edit(c.Request.Context(), c.Param("ticker"), in)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, stockJSON(s, h.Stocks.LogoURL(s)))
}

// UploadLogo accepts a multipart form with a "logo" file field.
func (h *StockHandler) UploadLogo(c *gin.Context) {
	fh, err := c.FormFile("logo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing logo file", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable logo file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Stocks.UploadLogo(c.Request.Context(), c.Param("ticker"), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"logo_url": url}, "logo uploaded")
}

func (h *StockHandler) SearchStocks(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}
	pg, err := h.Stocks.SearchStocks(c.Request.Context(), q, pageParams(c, h.Cfg.StocksPerPage))
	if err != nil {
		apiError(c, err)
		return
	}
	response.Paginated(c, pg, func(doc map[string]any) any { return doc })
}
