package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/infrastructure/memory"
	"github.com/greekgang/terminal/pkg/pagination"
)

func newTradeService(s *memory.Store) *TradeService {
	return &TradeService{
		Trades: s.Trades(),
		Users:  s.Users(),
		Stocks: s.Stocks(),
		Logger: quietLogger(),
	}
}

func seedStock(t *testing.T, s *memory.Store, name, ticker string) *entity.Stock {
	t.Helper()
	st := &entity.Stock{Name: name, Ticker: ticker, Sector: "Tech", IsActive: true, YearHigh: 1000, YearLow: 100}
	require.NoError(t, s.Stocks().Create(context.Background(), st))
	return st
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestBuildFromInput(t *testing.T) {
	s := memory.NewStore()
	users := newUserService(t, s)
	svc := newTradeService(s)
	nikos := register(t, users, "nikos", "nikos@utdallas.edu")
	seedStock(t, s, "Apple", "AAPL")
	ctx := context.Background()

	trade, err := svc.BuildFromInput(ctx, entity.TradeInput{
		Quantity: intp(10), Price: floatp(187.5), User: "nikos", Stock: "AAPL",
	})
	require.NoError(t, err)
	assert.Equal(t, nikos.ID, trade.UserID)
	assert.Equal(t, 10, trade.Quantity)
	assert.Equal(t, 187.5, trade.Price)
	assert.Equal(t, "AAPL", trade.Stock.Ticker)
}

func TestBuildFromInputValidationOrder(t *testing.T) {
	s := memory.NewStore()
	users := newUserService(t, s)
	svc := newTradeService(s)
	register(t, users, "nikos", "nikos@utdallas.edu")
	seedStock(t, s, "Apple", "AAPL")
	ctx := context.Background()

	cases := []struct {
		name string
		in   entity.TradeInput
		msg  string
	}{
		{"missing quantity", entity.TradeInput{Price: floatp(1), User: "nikos", Stock: "AAPL"}, "trade does not have a quantity."},
		{"missing price", entity.TradeInput{Quantity: intp(1), User: "nikos", Stock: "AAPL"}, "trade does not have a price."},
		{"missing user", entity.TradeInput{Quantity: intp(1), Price: floatp(1), Stock: "AAPL"}, "trade does not have a user."},
		{"missing stock", entity.TradeInput{Quantity: intp(1), Price: floatp(1), User: "nikos"}, "trade does not have a stock."},
		{"unknown user", entity.TradeInput{Quantity: intp(1), Price: floatp(1), User: "ghost", Stock: "AAPL"}, "user does not exist"},
		{"unknown stock", entity.TradeInput{Quantity: intp(1), Price: floatp(1), User: "nikos", Stock: "NOPE"}, "stock does not exist"},
		// presence of every field is checked before any lookup
		{"missing quantity with unknown refs", entity.TradeInput{Price: floatp(1), User: "ghost", Stock: "NOPE"}, "trade does not have a quantity."},
		// the user lookup runs before the stock lookup
		{"both unknown", entity.TradeInput{Quantity: intp(1), Price: floatp(1), User: "ghost", Stock: "NOPE"}, "user does not exist"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.BuildFromInput(ctx, tc.in)
			require.Error(t, err)
			assert.True(t, domainerr.IsValidation(err))
			assert.EqualError(t, err, tc.msg)
		})
	}
}

func TestCreateAssignsAuthor(t *testing.T) {
	s := memory.NewStore()
	users := newUserService(t, s)
	svc := newTradeService(s)
	register(t, users, "nikos", "nikos@utdallas.edu")
	eleni := register(t, users, "eleni", "eleni@utdallas.edu")
	seedStock(t, s, "Apple", "AAPL")
	ctx := context.Background()

	// the payload names nikos, but eleni is the acting user
	trade, err := svc.Create(ctx, eleni, entity.TradeInput{
		Quantity: intp(5), Price: floatp(200), User: "nikos", Stock: "AAPL",
	})
	require.NoError(t, err)
	assert.Equal(t, eleni.ID, trade.UserID)

	stored, err := svc.Get(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, "eleni", stored.User.Username)
}

func TestEdit(t *testing.T) {
	s := memory.NewStore()
	users := newUserService(t, s)
	svc := newTradeService(s)
	nikos := register(t, users, "nikos", "nikos@utdallas.edu")
	eleni := register(t, users, "eleni", "eleni@utdallas.edu")
	boss := register(t, users, "boss", adminEmail)
	seedStock(t, s, "Apple", "AAPL")
	seedStock(t, s, "Microsoft", "MSFT")
	ctx := context.Background()

	trade, err := svc.Create(ctx, nikos, entity.TradeInput{
		Quantity: intp(5), Price: floatp(200), User: "nikos", Stock: "AAPL",
	})
	require.NoError(t, err)

	// another user without the admin bit cannot edit
	_, err = svc.Edit(ctx, entity.Authenticated{User: eleni}, eleni.ID, trade.ID, entity.TradeInput{Quantity: intp(1)})
	assert.ErrorIs(t, err, domainerr.ErrForbidden)

	// the author edits quantity only; price and stock stay
	edited, err := svc.Edit(ctx, entity.Authenticated{User: nikos}, nikos.ID, trade.ID, entity.TradeInput{Quantity: intp(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, edited.Quantity)
	assert.Equal(t, 200.0, edited.Price)
	assert.Equal(t, "AAPL", edited.Stock.Ticker)

	// an administrator can move the trade to another stock
	edited, err = svc.Edit(ctx, entity.Authenticated{User: boss}, boss.ID, trade.ID, entity.TradeInput{Stock: "MSFT"})
	require.NoError(t, err)
	assert.Equal(t, "MSFT", edited.Stock.Ticker)

	_, err = svc.Edit(ctx, entity.Authenticated{User: nikos}, nikos.ID, trade.ID, entity.TradeInput{Stock: "NOPE"})
	require.Error(t, err)
	assert.EqualError(t, err, "stock does not exist")

	_, err = svc.Edit(ctx, entity.Authenticated{User: nikos}, nikos.ID, 9999, entity.TradeInput{Quantity: intp(1)})
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}

func TestTimelineFollowsEdges(t *testing.T) {
	s := memory.NewStore()
	users := newUserService(t, s)
	svc := newTradeService(s)
	nikos := register(t, users, "nikos", "nikos@utdallas.edu")
	eleni := register(t, users, "eleni", "eleni@utdallas.edu")
	seedStock(t, s, "Apple", "AAPL")
	ctx := context.Background()
	p := pagination.Params{Page: 1, PerPage: 10}

	_, err := svc.Create(ctx, nikos, entity.TradeInput{Quantity: intp(1), Price: floatp(100), User: "nikos", Stock: "AAPL"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, eleni, entity.TradeInput{Quantity: intp(2), Price: floatp(110), User: "eleni", Stock: "AAPL"})
	require.NoError(t, err)

	// before following, nikos only sees his own trades via the self-follow
	timeline, err := svc.Timeline(ctx, "nikos", p)
	require.NoError(t, err)
	require.Len(t, timeline.Items, 1)
	assert.Equal(t, "nikos", timeline.Items[0].User.Username)

	_, err = users.Follow(ctx, nikos, "eleni")
	require.NoError(t, err)

	timeline, err = svc.Timeline(ctx, "nikos", p)
	require.NoError(t, err)
	assert.Len(t, timeline.Items, 2)

	// unfollowing removes eleni's trades again
	_, err = users.Unfollow(ctx, nikos, "eleni")
	require.NoError(t, err)
	timeline, err = svc.Timeline(ctx, "nikos", p)
	require.NoError(t, err)
	assert.Len(t, timeline.Items, 1)
}

func TestListByUserNewestFirst(t *testing.T) {
	s := memory.NewStore()
	users := newUserService(t, s)
	svc := newTradeService(s)
	nikos := register(t, users, "nikos", "nikos@utdallas.edu")
	seedStock(t, s, "Apple", "AAPL")
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := svc.Create(ctx, nikos, entity.TradeInput{Quantity: intp(i), Price: floatp(100), User: "nikos", Stock: "AAPL"})
		require.NoError(t, err)
	}

	pg, err := svc.ListByUser(ctx, "nikos", pagination.Params{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, pg.Items, 2)
	assert.Equal(t, int64(3), pg.Total)
	assert.True(t, pg.HasNext())
	assert.Equal(t, 3, pg.Items[0].Quantity, "newest trade comes first")

	count, err := svc.CountByUser(ctx, nikos.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = svc.ListByUser(ctx, "ghost", pagination.Params{Page: 1, PerPage: 2})
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}
