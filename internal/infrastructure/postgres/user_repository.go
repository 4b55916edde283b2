package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/pagination"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.role_id, u.confirmed,
	u.name, u.location, u.about_me, u.member_since, u.last_seen, u.avatar_hash,
	r.id, r.name, r."default", r.permissions`

const userFrom = ` FROM users u JOIN roles r ON r.id = u.role_id `

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{Role: &entity.Role{}}
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID, &u.Confirmed,
		&u.Name, &u.Location, &u.AboutMe, &u.MemberSince, &u.LastSeen, &u.AvatarHash,
		&u.Role.ID, &u.Role.Name, &u.Role.Default, &u.Role.Permissions,
	); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// Create inserts the user row and the mandatory self-follow edge in a single
// transaction; either both commit or neither does.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role_id, confirmed, name, location, about_me, avatar_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, member_since, last_seen
	`, u.Username, u.Email, u.PasswordHash, u.RoleID, u.Confirmed, u.Name, u.Location, u.AboutMe, u.AvatarHash)
	if err := row.Scan(&u.ID, &u.MemberSince, &u.LastSeen); err != nil {
		return asDomain(err, "username or email already in use")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO follows (follower_id, followed_id) VALUES ($1, $1)
	`, u.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+userFrom+`WHERE u.id = $1`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+userFrom+`WHERE u.username = $1`, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+userFrom+`WHERE u.email = $1`, email))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, role_id = $2, name = $3, location = $4, about_me = $5
		WHERE id = $6
	`, u.Username, u.RoleID, u.Name, u.Location, u.AboutMe, u.ID)
	if err != nil {
		return asDomain(err, "username already in use")
	}
	if res.RowsAffected() == 0 {
		return notFoundErr()
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return notFoundErr()
	}
	return nil
}

func (r *UserRepository) UpdateEmail(ctx context.Context, id int64, email, avatarHash string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET email = $1, avatar_hash = $2 WHERE id = $3`, email, avatarHash, id)
	if err != nil {
		return asDomain(err, "email already in use")
	}
	if res.RowsAffected() == 0 {
		return notFoundErr()
	}
	return nil
}

func (r *UserRepository) SetConfirmed(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET confirmed = true WHERE id = $1`, id)
	return err
}

// Ping stamps last-seen; called on every authenticated request.
func (r *UserRepository) Ping(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_seen = $1 WHERE id = $2`, time.Now().UTC(), id)
	return err
}

// Delete removes the user; follow and watch edges go with it via the
// ON DELETE CASCADE foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return notFoundErr()
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.User], error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return pagination.Page[*entity.User]{}, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+userFrom+`ORDER BY u.username LIMIT $1 OFFSET $2`, p.PerPage, p.Offset())
	if err != nil {
		return pagination.Page[*entity.User]{}, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return pagination.Page[*entity.User]{}, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*entity.User]{}, err
	}
	return pagination.New(users, total, p)
}

// Follow inserts the edge, quietly keeping the existing row if the pair is
// already connected.
func (r *UserRepository) Follow(ctx context.Context, followerID, followedID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, followed_id) VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`, followerID, followedID)
	return err
}

func (r *UserRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	return err
}

func (r *UserRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)
	`, followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Followers(ctx context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Follow], error) {
	return r.followPage(ctx, `followed_id`, `follower_id`, userID, p)
}

func (r *UserRepository) Followed(ctx context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Follow], error) {
	return r.followPage(ctx, `follower_id`, `followed_id`, userID, p)
}

func (r *UserRepository) followPage(ctx context.Context, anchorCol, otherCol string, userID int64, p pagination.Params) (pagination.Page[*entity.Follow], error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE `+anchorCol+` = $1`, userID).Scan(&total); err != nil {
		return pagination.Page[*entity.Follow]{}, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT f.follower_id, f.followed_id, f.timestamp, o.username
		FROM follows f JOIN users o ON o.id = f.`+otherCol+`
		WHERE f.`+anchorCol+` = $1
		ORDER BY f.timestamp DESC, o.username
		LIMIT $2 OFFSET $3
	`, userID, p.PerPage, p.Offset())
	if err != nil {
		return pagination.Page[*entity.Follow]{}, err
	}
	defer rows.Close()

	var edges []*entity.Follow
	for rows.Next() {
		f := &entity.Follow{}
		other := &entity.User{}
		if err := rows.Scan(&f.FollowerID, &f.FollowedID, &f.Timestamp, &other.Username); err != nil {
			return pagination.Page[*entity.Follow]{}, err
		}
		if anchorCol == "followed_id" {
			other.ID = f.FollowerID
			f.Follower = other
		} else {
			other.ID = f.FollowedID
			f.Followed = other
		}
		edges = append(edges, f)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*entity.Follow]{}, err
	}
	return pagination.New(edges, total, p)
}

func (r *UserRepository) Watch(ctx context.Context, userID, stockID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO watches (user_id, stock_id) VALUES ($1, $2)
		ON CONFLICT (user_id, stock_id) DO NOTHING
	`, userID, stockID)
	return err
}

func (r *UserRepository) Unwatch(ctx context.Context, userID, stockID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM watches WHERE user_id = $1 AND stock_id = $2`, userID, stockID)
	return err
}

func (r *UserRepository) IsWatching(ctx context.Context, userID, stockID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM watches WHERE user_id = $1 AND stock_id = $2)
	`, userID, stockID).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Watchlist(ctx context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Watch], error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM watches WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return pagination.Page[*entity.Watch]{}, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT w.user_id, w.stock_id, w.timestamp, u.username, s.ticker, s.name
		FROM watches w
		JOIN users u ON u.id = w.user_id
		JOIN stocks s ON s.id = w.stock_id
		WHERE w.user_id = $1
		ORDER BY w.timestamp DESC, s.ticker
		LIMIT $2 OFFSET $3
	`, userID, p.PerPage, p.Offset())
	if err != nil {
		return pagination.Page[*entity.Watch]{}, err
	}
	defer rows.Close()

	var watches []*entity.Watch
	for rows.Next() {
		w := &entity.Watch{User: &entity.User{}, Stock: &entity.Stock{}}
		if err := rows.Scan(&w.UserID, &w.StockID, &w.Timestamp, &w.User.Username, &w.Stock.Ticker, &w.Stock.Name); err != nil {
			return pagination.Page[*entity.Watch]{}, err
		}
		w.User.ID = w.UserID
		w.Stock.ID = w.StockID
		watches = append(watches, w)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*entity.Watch]{}, err
	}
	return pagination.New(watches, total, p)
}

var _ repository.UserRepository = (*UserRepository)(nil)
