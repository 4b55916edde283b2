package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/pagination"
)

type StockRepository struct {
	pool *pgxpool.Pool
}

func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

const stockColumns = `id, name, ticker, sector, is_active, logo_filename, year_high, year_low`

func scanStock(row pgx.Row) (*entity.Stock, error) {
	s := &entity.Stock{}
	if err := row.Scan(&s.ID, &s.Name, &s.Ticker, &s.Sector, &s.IsActive, &s.LogoFilename, &s.YearHigh, &s.YearLow); err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *StockRepository) Create(ctx context.Context, s *entity.Stock) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO stocks (name, ticker, sector, is_active, logo_filename, year_high, year_low)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, s.Name, s.Ticker, s.Sector, s.IsActive, s.LogoFilename, s.YearHigh, s.YearLow)
	if err := row.Scan(&s.ID); err != nil {
		return asDomain(err, "stock with that name or ticker already exists")
	}
	return nil
}

func (r *StockRepository) GetByID(ctx context.Context, id int64) (*entity.Stock, error) {
	return scanStock(r.pool.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = $1`, id))
}

func (r *StockRepository) GetByTicker(ctx context.Context, ticker string) (*entity.Stock, error) {
	return scanStock(r.pool.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE ticker = $1`, ticker))
}

func (r *StockRepository) Update(ctx context.Context, s *entity.Stock) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE stocks
		SET name = $1, ticker = $2, sector = $3, is_active = $4, year_high = $5, year_low = $6
		WHERE id = $7
	`, s.Name, s.Ticker, s.Sector, s.IsActive, s.YearHigh, s.YearLow, s.ID)
	if err != nil {
		return asDomain(err, "stock with that name or ticker already exists")
	}
	if res.RowsAffected() == 0 {
		return notFoundErr()
	}
	return nil
}

func (r *StockRepository) SetLogo(ctx context.Context, id int64, filename string) error {
	res, err := r.pool.Exec(ctx, `UPDATE stocks SET logo_filename = $1 WHERE id = $2`, filename, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return notFoundErr()
	}
	return nil
}

func (r *StockRepository) List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.Stock], error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stocks`).Scan(&total); err != nil {
		return pagination.Page[*entity.Stock]{}, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+stockColumns+` FROM stocks ORDER BY ticker LIMIT $1 OFFSET $2`, p.PerPage, p.Offset())
	if err != nil {
		return pagination.Page[*entity.Stock]{}, err
	}
	defer rows.Close()

	var stocks []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return pagination.Page[*entity.Stock]{}, err
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*entity.Stock]{}, err
	}
	return pagination.New(stocks, total, p)
}

var _ repository.StockRepository = (*StockRepository)(nil)
