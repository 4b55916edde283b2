package memory

import (
	"context"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/domain/repository"
)

type RoleRepository struct {
	s *Store
}

func (r *RoleRepository) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, domainerr.ErrNotFound
	}
	c := *role
	return &c, nil
}

func (r *RoleRepository) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.roles {
		if role.Name == name {
			c := *role
			return &c, nil
		}
	}
	return nil, domainerr.ErrNotFound
}

func (r *RoleRepository) GetDefault(_ context.Context) (*entity.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, role := range r.s.roles {
		if role.Default {
			c := *role
			return &c, nil
		}
	}
	return nil, domainerr.ErrNotFound
}

func (r *RoleRepository) InsertRoles(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for name, grants := range entity.RoleGrants {
		var existing *entity.Role
		for _, role := range r.s.roles {
			if role.Name == name {
				existing = role
				break
			}
		}
		if existing == nil {
			existing = &entity.Role{ID: r.s.id(), Name: name}
			r.s.roles[existing.ID] = existing
		}
		existing.ResetPermissions()
		for _, p := range grants {
			existing.AddPermission(p)
		}
		existing.Default = name == entity.DefaultRoleName
	}
	return nil
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
