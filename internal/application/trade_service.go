package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	repo "github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/pagination"
)

// TradeService owns the simulated trade records.
type TradeService struct {
	Trades repo.TradeRepository
	Users  repo.UserRepository
	Stocks repo.StockRepository
	Logger *logrus.Logger
}

// BuildFromInput validates a trade payload and resolves its user and stock
// references. Field presence is checked before any lookup so the caller
// learns about a malformed payload before a dangling reference.
func (s *TradeService) BuildFromInput(ctx context.Context, in entity.TradeInput) (*entity.Trade, error) {
	if in.Quantity == nil {
		return nil, domainerr.NewValidation("trade does not have a quantity.")
	}
	if in.Price == nil {
		return nil, domainerr.NewValidation("trade does not have a price.")
	}
	if in.User == "" {
		return nil, domainerr.NewValidation("trade does not have a user.")
	}
	if in.Stock == "" {
		return nil, domainerr.NewValidation("trade does not have a stock.")
	}
	user, err := s.Users.GetByUsername(ctx, in.User)
	if err != nil {
		return nil, domainerr.NewValidation("user does not exist")
	}
	stock, err := s.Stocks.GetByTicker(ctx, in.Stock)
	if err != nil {
		return nil, domainerr.NewValidation("stock does not exist")
	}
	return &entity.Trade{
		StockID:  stock.ID,
		UserID:   user.ID,
		Quantity: *in.Quantity,
		Price:    *in.Price,
		Stock:    stock,
		User:     user,
	}, nil
}

// Create records a trade authored by the acting user. Whatever user the
// payload named, the stored row belongs to the author.
func (s *TradeService) Create(ctx context.Context, author *entity.User, in entity.TradeInput) (*entity.Trade, error) {
	trade, err := s.BuildFromInput(ctx, in)
	if err != nil {
		return nil, err
	}
	trade.UserID = author.ID
	trade.User = author
	if err := s.Trades.Create(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// Edit applies a partial update to a trade. Absent fields keep their stored
// values; a new stock ticker moves the trade to that stock. Only the author
// or an administrator may edit.
func (s *TradeService) Edit(ctx context.Context, actor entity.Actor, authorID int64, id int64, in entity.TradeInput) (*entity.Trade, error) {
	trade, err := s.Trades.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trade.UserID != authorID && !actor.Can(entity.PermAdmin) {
		return nil, domainerr.ErrForbidden
	}
	if in.Stock != "" && (trade.Stock == nil || in.Stock != trade.Stock.Ticker) {
		stock, err := s.Stocks.GetByTicker(ctx, in.Stock)
		if err != nil {
			return nil, domainerr.NewValidation("stock does not exist")
		}
		trade.StockID = stock.ID
		trade.Stock = stock
	}
	if in.Quantity != nil {
		trade.Quantity = *in.Quantity
	}
	if in.Price != nil {
		trade.Price = *in.Price
	}
	if err := s.Trades.Update(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *TradeService) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.Trades.CountByUser(ctx, userID)
}

func (s *TradeService) Get(ctx context.Context, id int64) (*entity.Trade, error) {
	return s.Trades.GetByID(ctx, id)
}

func (s *TradeService) List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	return s.Trades.List(ctx, p)
}

// ListByUser pages the named user's trades, newest first.
func (s *TradeService) ListByUser(ctx context.Context, username string, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return pagination.Page[*entity.Trade]{}, err
	}
	return s.Trades.ListByUser(ctx, u.ID, p)
}

// Timeline pages trades by the users the named user follows. The self-follow
// inserted at registration keeps the user's own trades in their timeline.
func (s *TradeService) Timeline(ctx context.Context, username string, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return pagination.Page[*entity.Trade]{}, err
	}
	return s.Trades.ListFollowed(ctx, u.ID, p)
}
