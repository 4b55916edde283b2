package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/domain/repository"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

const roleColumns = `id, name, "default", permissions`

func (r *RoleRepository) scanRole(row interface{ Scan(...any) error }) (*entity.Role, error) {
	role := &entity.Role{}
	if err := row.Scan(&role.ID, &role.Name, &role.Default, &role.Permissions); err != nil {
		return nil, notFound(err)
	}
	return role, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*entity.Role, error) {
	return r.scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name))
}

func (r *RoleRepository) GetDefault(ctx context.Context) (*entity.Role, error) {
	return r.scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE "default" = true`))
}

// InsertRoles upserts the canonical role table. Permissions are rebuilt from
// scratch on every run so a changed grant set propagates to existing rows.
func (r *RoleRepository) InsertRoles(ctx context.Context) error {
	for name, grants := range entity.RoleGrants {
		role := &entity.Role{Name: name}
		for _, p := range grants {
			role.AddPermission(p)
		}
		_, err := r.pool.Exec(ctx, `
			INSERT INTO roles (name, "default", permissions)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET "default" = EXCLUDED."default", permissions = EXCLUDED.permissions
		`, name, name == entity.DefaultRoleName, role.Permissions)
		if err != nil {
			return err
		}
	}
	return nil
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
