package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	repo "github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/helpers"
	"github.com/greekgang/terminal/pkg/pagination"
)

// StockService owns the stock catalog and its logo uploads.
type StockService struct {
	Stocks repo.StockRepository
	Logger *logrus.Logger

	ES            *elasticsearch.Client
	ESStocksIndex string

	GCS        *storage.Client
	LogoBucket string
}

// Create validates and persists a new catalog entry.
func (s *StockService) Create(ctx context.Context, in entity.StockInput) (*entity.Stock, error) {
	stock, err := entity.NewStock(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.Stocks.GetByTicker(ctx, stock.Ticker); err == nil {
		return nil, domainerr.NewValidation(fmt.Sprintf("Stock with %s already exists.", stock.Ticker))
	}
	if err := s.Stocks.Create(ctx, stock); err != nil {
		return nil, err
	}
	s.indexStock(ctx, stock)
	return stock, nil
}

// EditStockInput carries a partial update; nil fields are left untouched.
type EditStockInput struct {
	Name     *string  `json:"name"`
	Ticker   *string  `json:"ticker"`
	Sector   *string  `json:"sector"`
	YearHigh *float64 `json:"year_high"`
	YearLow  *float64 `json:"year_low"`
	IsActive *bool    `json:"is_active"`
}

// Edit applies a partial update to the stock with the given ticker,
// re-running the same range checks creation enforces on the merged result.
func (s *StockService) Edit(ctx context.Context, ticker string, in EditStockInput) (*entity.Stock, error) {
	stock, err := s.Stocks.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		stock.Name = *in.Name
	}
	if in.Ticker != nil && *in.Ticker != stock.Ticker {
		if len(*in.Ticker) > entity.TickerMaxLen {
			return nil, domainerr.NewValidation("stock ticker cannot be longer than 5 characters")
		}
		if other, err := s.Stocks.GetByTicker(ctx, *in.Ticker); err == nil && other.ID != stock.ID {
			return nil, domainerr.NewValidation(fmt.Sprintf("Stock with %s already exists.", *in.Ticker))
		}
		stock.Ticker = *in.Ticker
	}
	if in.Sector != nil {
		stock.Sector = *in.Sector
	}
	if in.YearHigh != nil {
		stock.YearHigh = *in.YearHigh
	}
	if in.YearLow != nil {
		stock.YearLow = *in.YearLow
	}
	if in.IsActive != nil {
		stock.IsActive = *in.IsActive
	}
	if stock.YearHigh < 0 {
		return nil, domainerr.NewValidation("52-week high cannot be negative")
	}
	if stock.YearLow < 0 {
		return nil, domainerr.NewValidation("52-week low cannot be negative")
	}
	if stock.YearHigh < stock.YearLow {
		return nil, domainerr.NewValidation("52-week low cannot be larger than 52-week high")
	}
	if err := s.Stocks.Update(ctx, stock); err != nil {
		return nil, err
	}
	s.indexStock(ctx, stock)
	return stock, nil
}

func (s *StockService) Get(ctx context.Context, id int64) (*entity.Stock, error) {
	return s.Stocks.GetByID(ctx, id)
}

func (s *StockService) GetByTicker(ctx context.Context, ticker string) (*entity.Stock, error) {
	return s.Stocks.GetByTicker(ctx, ticker)
}

func (s *StockService) List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.Stock], error) {
	return s.Stocks.List(ctx, p)
}

// UploadLogo stores the image under a fresh object name and records it on
// the stock. Returns the public URL of the stored object.
func (s *StockService) UploadLogo(ctx context.Context, ticker, filename, contentType string, r io.Reader) (string, error) {
	stock, err := s.Stocks.GetByTicker(ctx, ticker)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.LogoBucket == "" {
		return "", domainerr.NewValidation("logo storage is not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg":
	default:
		return "", domainerr.NewValidation("unsupported logo file type")
	}
	object := "logos/" + uuid.NewString() + ext
	url, err := helpers.UploadObject(ctx, s.GCS, s.LogoBucket, object, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Stocks.SetLogo(ctx, stock.ID, object); err != nil {
		return "", err
	}
	return url, nil
}

// LogoURL resolves the stored object name to its public URL, or "" when no
// logo has been uploaded.
func (s *StockService) LogoURL(stock *entity.Stock) string {
	if stock.LogoFilename == "" || s.LogoBucket == "" {
		return ""
	}
	return helpers.PublicURL(s.LogoBucket, stock.LogoFilename)
}

func (s *StockService) indexStock(ctx context.Context, stock *entity.Stock) {
	if s.ES == nil || s.ESStocksIndex == "" {
		return
	}
	doc := map[string]any{
		"name":   stock.Name,
		"ticker": stock.Ticker,
		"sector": stock.Sector,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESStocksIndex, DocumentID: strconv.FormatInt(stock.ID, 10), Body: strings.NewReader(string(b))}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("ticker", stock.Ticker).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("ticker", stock.Ticker).Warn("es index response error")
	}
}

// SearchStocks ranks catalog entries against the indexed fields.
func (s *StockService) SearchStocks(ctx context.Context, q string, p pagination.Params) (pagination.Page[map[string]any], error) {
	return searchIndex(ctx, s.ES, s.ESStocksIndex, q, []string{"ticker^3", "name^2", "sector"}, p)
}
