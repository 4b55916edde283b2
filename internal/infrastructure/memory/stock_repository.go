package memory

import (
	"context"
	"sort"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/pagination"
)

type StockRepository struct {
	s *Store
}

func (r *StockRepository) Create(_ context.Context, st *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.stocks {
		if other.Ticker == st.Ticker || other.Name == st.Name {
			return domainerr.NewValidation("stock with that name or ticker already exists")
		}
	}
	st.ID = r.s.id()
	r.s.stocks[st.ID] = cloneStock(st)
	return nil
}

func (r *StockRepository) GetByID(_ context.Context, id int64) (*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.stocks[id]
	if !ok {
		return nil, domainerr.ErrNotFound
	}
	return cloneStock(st), nil
}

func (r *StockRepository) GetByTicker(_ context.Context, ticker string) (*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if st := r.s.stockByTicker(ticker); st != nil {
		return cloneStock(st), nil
	}
	return nil, domainerr.ErrNotFound
}

func (r *StockRepository) Update(_ context.Context, st *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stocks[st.ID]; !ok {
		return domainerr.ErrNotFound
	}
	for _, other := range r.s.stocks {
		if other.ID != st.ID && (other.Ticker == st.Ticker || other.Name == st.Name) {
			return domainerr.NewValidation("stock with that name or ticker already exists")
		}
	}
	stored := r.s.stocks[st.ID]
	stored.Name = st.Name
	stored.Ticker = st.Ticker
	stored.Sector = st.Sector
	stored.IsActive = st.IsActive
	stored.YearHigh = st.YearHigh
	stored.YearLow = st.YearLow
	return nil
}

func (r *StockRepository) SetLogo(_ context.Context, id int64, filename string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stocks[id]
	if !ok {
		return domainerr.ErrNotFound
	}
	st.LogoFilename = filename
	return nil
}

func (r *StockRepository) List(_ context.Context, p pagination.Params) (pagination.Page[*entity.Stock], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Stock, 0, len(r.s.stocks))
	for _, id := range sortedKeys(r.s.stocks) {
		all = append(all, cloneStock(r.s.stocks[id]))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Ticker < all[j].Ticker })
	return pagination.New(slicePage(all, p.Offset(), p.PerPage), int64(len(all)), p)
}

var _ repository.StockRepository = (*StockRepository)(nil)
