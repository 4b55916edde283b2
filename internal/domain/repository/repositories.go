package repository

import (
	"context"

	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/pkg/pagination"
)

// RoleRepository provides role lookups and the idempotent seed upsert.
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	GetDefault(ctx context.Context) (*entity.Role, error)
	// InsertRoles upserts the canonical role table. Running it twice leaves
	// exactly one row per named role and exactly one default row.
	InsertRoles(ctx context.Context) error
}

// UserRepository covers the identity aggregate plus its follow and watch
// edges, which have no identity of their own.
type UserRepository interface {
	// Create inserts the user and their self-follow edge in one transaction.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	// UpdateEmail swaps the address and avatar fingerprint; a duplicate
	// address is a ValidationError.
	UpdateEmail(ctx context.Context, id int64, email, avatarHash string) error
	SetConfirmed(ctx context.Context, id int64) error
	Ping(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.User], error)

	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	Followers(ctx context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Follow], error)
	Followed(ctx context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Follow], error)

	Watch(ctx context.Context, userID, stockID int64) error
	Unwatch(ctx context.Context, userID, stockID int64) error
	IsWatching(ctx context.Context, userID, stockID int64) (bool, error)
	Watchlist(ctx context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Watch], error)
}

// StockRepository persists market entities. No delete: stocks are retired by
// clearing IsActive, never removed.
type StockRepository interface {
	Create(ctx context.Context, s *entity.Stock) error
	GetByID(ctx context.Context, id int64) (*entity.Stock, error)
	GetByTicker(ctx context.Context, ticker string) (*entity.Stock, error)
	Update(ctx context.Context, s *entity.Stock) error
	SetLogo(ctx context.Context, id int64, filename string) error
	List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.Stock], error)
}

// TradeRepository persists the trade ledger. Rows are edited in place but
// never deleted.
type TradeRepository interface {
	Create(ctx context.Context, t *entity.Trade) error
	GetByID(ctx context.Context, id int64) (*entity.Trade, error)
	Update(ctx context.Context, t *entity.Trade) error
	List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.Trade], error)
	ListByUser(ctx context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Trade], error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	// ListFollowed returns trades authored by anyone the viewer follows,
	// newest first. The viewer's self-follow edge includes their own trades.
	ListFollowed(ctx context.Context, viewerID int64, p pagination.Params) (pagination.Page[*entity.Trade], error)
}
