package memory

import (
	"context"
	"sort"
	"time"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/pagination"
)

type TradeRepository struct {
	s *Store
}

func (r *TradeRepository) Create(_ context.Context, t *entity.Trade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.id()
	t.Timestamp = time.Now().UTC()
	stored := *t
	stored.Stock = nil
	stored.User = nil
	r.s.trades[t.ID] = &stored
	return nil
}

func (r *TradeRepository) get(id int64) (*entity.Trade, error) {
	t, ok := r.s.trades[id]
	if !ok {
		return nil, domainerr.ErrNotFound
	}
	c := *t
	if st, ok := r.s.stocks[t.StockID]; ok {
		c.Stock = cloneStock(st)
	}
	if u, ok := r.s.users[t.UserID]; ok {
		c.User = cloneUser(u)
	}
	return &c, nil
}

func (r *TradeRepository) GetByID(_ context.Context, id int64) (*entity.Trade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.get(id)
}

func (r *TradeRepository) Update(_ context.Context, t *entity.Trade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.trades[t.ID]
	if !ok {
		return domainerr.ErrNotFound
	}
	stored.StockID = t.StockID
	stored.UserID = t.UserID
	stored.Quantity = t.Quantity
	stored.Price = t.Price
	return nil
}

func (r *TradeRepository) List(_ context.Context, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	return r.page(p, func(*entity.Trade) bool { return true })
}

func (r *TradeRepository) ListByUser(_ context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	return r.page(p, func(t *entity.Trade) bool { return t.UserID == userID })
}

func (r *TradeRepository) CountByUser(_ context.Context, userID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, t := range r.s.trades {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *TradeRepository) ListFollowed(_ context.Context, viewerID int64, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	return r.page(p, func(t *entity.Trade) bool {
		_, ok := r.s.follows[pair{viewerID, t.UserID}]
		return ok
	})
}

func (r *TradeRepository) page(p pagination.Params, match func(*entity.Trade) bool) (pagination.Page[*entity.Trade], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Trade
	for _, id := range sortedKeys(r.s.trades) {
		if match(r.s.trades[id]) {
			t, _ := r.get(id)
			all = append(all, t)
		}
	}
	// newest first, id breaking timestamp ties
	sort.Slice(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].ID > all[j].ID
		}
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return pagination.New(slicePage(all, p.Offset(), p.PerPage), int64(len(all)), p)
}

var _ repository.TradeRepository = (*TradeRepository)(nil)
