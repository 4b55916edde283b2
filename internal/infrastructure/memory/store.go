// Package memory holds map-backed implementations of the repository
// interfaces. They honor the same uniqueness and cascade rules as the
// postgres schema and back the application-layer tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/greekgang/terminal/internal/domain/entity"
)

type pair struct{ a, b int64 }

// Store is the shared backing state; the per-aggregate repositories returned
// by Roles/Users/Stocks/Trades all view the same data, so edges and joins
// behave like they do in the relational store.
type Store struct {
	mu      sync.RWMutex
	roles   map[int64]*entity.Role
	users   map[int64]*entity.User
	stocks  map[int64]*entity.Stock
	trades  map[int64]*entity.Trade
	follows map[pair]time.Time // (follower, followed)
	watches map[pair]time.Time // (user, stock)
	nextID  int64
}

func NewStore() *Store {
	return &Store{
		roles:   make(map[int64]*entity.Role),
		users:   make(map[int64]*entity.User),
		stocks:  make(map[int64]*entity.Stock),
		trades:  make(map[int64]*entity.Trade),
		follows: make(map[pair]time.Time),
		watches: make(map[pair]time.Time),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Roles() *RoleRepository   { return &RoleRepository{s: s} }
func (s *Store) Users() *UserRepository   { return &UserRepository{s: s} }
func (s *Store) Stocks() *StockRepository { return &StockRepository{s: s} }
func (s *Store) Trades() *TradeRepository { return &TradeRepository{s: s} }

// FollowCount reports the number of follow edges; used by tests to assert
// exact edge bookkeeping.
func (s *Store) FollowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.follows)
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.Role != nil {
		role := *u.Role
		c.Role = &role
	}
	return &c
}

func cloneStock(st *entity.Stock) *entity.Stock {
	c := *st
	return &c
}

func (s *Store) userByUsername(username string) *entity.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (s *Store) userByEmail(email string) *entity.User {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Store) stockByTicker(ticker string) *entity.Stock {
	for _, st := range s.stocks {
		if st.Ticker == ticker {
			return st
		}
	}
	return nil
}

func sortedKeys[T any](m map[int64]*T) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func slicePage[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
