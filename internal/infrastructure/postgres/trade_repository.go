package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/pagination"
)

type TradeRepository struct {
	pool *pgxpool.Pool
}

func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

const tradeColumns = `
	t.id, t.stock_id, t.user_id, t.timestamp, t.quantity, t.price,
	s.ticker, s.name, u.username`

const tradeFrom = `
	FROM trades t
	JOIN stocks s ON s.id = t.stock_id
	JOIN users u ON u.id = t.user_id `

func scanTrade(row pgx.Row) (*entity.Trade, error) {
	t := &entity.Trade{Stock: &entity.Stock{}, User: &entity.User{}}
	if err := row.Scan(
		&t.ID, &t.StockID, &t.UserID, &t.Timestamp, &t.Quantity, &t.Price,
		&t.Stock.Ticker, &t.Stock.Name, &t.User.Username,
	); err != nil {
		return nil, notFound(err)
	}
	t.Stock.ID = t.StockID
	t.User.ID = t.UserID
	return t, nil
}

func (r *TradeRepository) Create(ctx context.Context, t *entity.Trade) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO trades (stock_id, user_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp
	`, t.StockID, t.UserID, t.Quantity, t.Price)
	return row.Scan(&t.ID, &t.Timestamp)
}

func (r *TradeRepository) GetByID(ctx context.Context, id int64) (*entity.Trade, error) {
	return scanTrade(r.pool.QueryRow(ctx, `SELECT `+tradeColumns+tradeFrom+`WHERE t.id = $1`, id))
}

func (r *TradeRepository) Update(ctx context.Context, t *entity.Trade) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE trades SET stock_id = $1, user_id = $2, quantity = $3, price = $4 WHERE id = $5
	`, t.StockID, t.UserID, t.Quantity, t.Price, t.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return notFoundErr()
	}
	return nil
}

func (r *TradeRepository) List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	return r.page(ctx, p,
		`SELECT COUNT(*) FROM trades`,
		`SELECT `+tradeColumns+tradeFrom+`ORDER BY t.timestamp DESC, t.id DESC`)
}

func (r *TradeRepository) ListByUser(ctx context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	return r.page(ctx, p,
		`SELECT COUNT(*) FROM trades WHERE user_id = $1`,
		`SELECT `+tradeColumns+tradeFrom+`WHERE t.user_id = $1 ORDER BY t.timestamp DESC, t.id DESC`,
		userID)
}

func (r *TradeRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trades WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

// ListFollowed joins the ledger against the viewer's follow edges. The
// self-follow edge means the viewer's own trades appear in their timeline.
func (r *TradeRepository) ListFollowed(ctx context.Context, viewerID int64, p pagination.Params) (pagination.Page[*entity.Trade], error) {
	return r.page(ctx, p,
		`SELECT COUNT(*) FROM trades t JOIN follows f ON f.followed_id = t.user_id WHERE f.follower_id = $1`,
		`SELECT `+tradeColumns+tradeFrom+`
		 JOIN follows f ON f.followed_id = t.user_id
		 WHERE f.follower_id = $1
		 ORDER BY t.timestamp DESC, t.id DESC`,
		viewerID)
}

// page runs a count plus a filtered, ordered select. filterArgs are shared by
// both statements; LIMIT/OFFSET placeholders are appended after them.
func (r *TradeRepository) page(ctx context.Context, p pagination.Params, countSQL, listSQL string, filterArgs ...any) (pagination.Page[*entity.Trade], error) {
	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, filterArgs...).Scan(&total); err != nil {
		return pagination.Page[*entity.Trade]{}, err
	}
	n := len(filterArgs)
	listSQL += ` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	listArgs := append(append([]any{}, filterArgs...), p.PerPage, p.Offset())
	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return pagination.Page[*entity.Trade]{}, err
	}
	defer rows.Close()

	var trades []*entity.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return pagination.Page[*entity.Trade]{}, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*entity.Trade]{}, err
	}
	return pagination.New(trades, total, p)
}

var _ repository.TradeRepository = (*TradeRepository)(nil)
