package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/pagination"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.userByUsername(u.Username) != nil || r.s.userByEmail(u.Email) != nil {
		return domainerr.NewValidation("username or email already in use")
	}
	u.ID = r.s.id()
	now := time.Now().UTC()
	u.MemberSince = now
	u.LastSeen = now
	if u.Role != nil {
		role := *u.Role
		stored := cloneUser(u)
		stored.Role = &role
		r.s.users[u.ID] = stored
	} else {
		r.s.users[u.ID] = cloneUser(u)
	}
	// self-follow edge, same unit of work as the insert
	r.s.follows[pair{u.ID, u.ID}] = now
	return nil
}

func (r *UserRepository) get(id int64) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domainerr.ErrNotFound
	}
	c := cloneUser(u)
	if c.Role == nil {
		if role, ok := r.s.roles[u.RoleID]; ok {
			rc := *role
			c.Role = &rc
		}
	}
	return c, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.get(id)
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.s.userByUsername(username); u != nil {
		return r.get(u.ID)
	}
	return nil, domainerr.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.s.userByEmail(email); u != nil {
		return r.get(u.ID)
	}
	return nil, domainerr.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[u.ID]
	if !ok {
		return domainerr.ErrNotFound
	}
	if other := r.s.userByUsername(u.Username); other != nil && other.ID != u.ID {
		return domainerr.NewValidation("username already in use")
	}
	stored.Username = u.Username
	stored.RoleID = u.RoleID
	stored.Name = u.Name
	stored.Location = u.Location
	stored.AboutMe = u.AboutMe
	if u.Role != nil {
		role := *u.Role
		stored.Role = &role
	}
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domainerr.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *UserRepository) UpdateEmail(_ context.Context, id int64, email, avatarHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domainerr.ErrNotFound
	}
	if other := r.s.userByEmail(email); other != nil && other.ID != id {
		return domainerr.NewValidation("email already in use")
	}
	u.Email = email
	u.AvatarHash = avatarHash
	return nil
}

func (r *UserRepository) SetConfirmed(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domainerr.ErrNotFound
	}
	u.Confirmed = true
	return nil
}

func (r *UserRepository) Ping(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domainerr.ErrNotFound
	}
	u.LastSeen = time.Now().UTC()
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domainerr.ErrNotFound
	}
	delete(r.s.users, id)
	for p := range r.s.follows {
		if p.a == id || p.b == id {
			delete(r.s.follows, p)
		}
	}
	for p := range r.s.watches {
		if p.a == id {
			delete(r.s.watches, p)
		}
	}
	for tid, t := range r.s.trades {
		if t.UserID == id {
			delete(r.s.trades, tid)
		}
	}
	return nil
}

func (r *UserRepository) List(_ context.Context, p pagination.Params) (pagination.Page[*entity.User], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		u, _ := r.get(id)
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return pagination.New(slicePage(all, p.Offset(), p.PerPage), int64(len(all)), p)
}

func (r *UserRepository) Follow(_ context.Context, followerID, followedID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pair{followerID, followedID}
	if _, ok := r.s.follows[key]; !ok {
		r.s.follows[key] = time.Now().UTC()
	}
	return nil
}

func (r *UserRepository) Unfollow(_ context.Context, followerID, followedID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.follows, pair{followerID, followedID})
	return nil
}

func (r *UserRepository) IsFollowing(_ context.Context, followerID, followedID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.follows[pair{followerID, followedID}]
	return ok, nil
}

func (r *UserRepository) Followers(_ context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Follow], error) {
	return r.followPage(userID, p, false)
}

func (r *UserRepository) Followed(_ context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Follow], error) {
	return r.followPage(userID, p, true)
}

func (r *UserRepository) followPage(userID int64, p pagination.Params, outgoing bool) (pagination.Page[*entity.Follow], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var edges []*entity.Follow
	for key, ts := range r.s.follows {
		if (outgoing && key.a == userID) || (!outgoing && key.b == userID) {
			f := &entity.Follow{FollowerID: key.a, FollowedID: key.b, Timestamp: ts}
			if u, ok := r.s.users[key.a]; ok {
				f.Follower = cloneUser(u)
			}
			if u, ok := r.s.users[key.b]; ok {
				f.Followed = cloneUser(u)
			}
			edges = append(edges, f)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Timestamp.After(edges[j].Timestamp) })
	return pagination.New(slicePage(edges, p.Offset(), p.PerPage), int64(len(edges)), p)
}

func (r *UserRepository) Watch(_ context.Context, userID, stockID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pair{userID, stockID}
	if _, ok := r.s.watches[key]; !ok {
		r.s.watches[key] = time.Now().UTC()
	}
	return nil
}

func (r *UserRepository) Unwatch(_ context.Context, userID, stockID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.watches, pair{userID, stockID})
	return nil
}

func (r *UserRepository) IsWatching(_ context.Context, userID, stockID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.watches[pair{userID, stockID}]
	return ok, nil
}

func (r *UserRepository) Watchlist(_ context.Context, userID int64, p pagination.Params) (pagination.Page[*entity.Watch], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var watches []*entity.Watch
	for key, ts := range r.s.watches {
		if key.a != userID {
			continue
		}
		w := &entity.Watch{UserID: key.a, StockID: key.b, Timestamp: ts}
		if u, ok := r.s.users[key.a]; ok {
			w.User = cloneUser(u)
		}
		if st, ok := r.s.stocks[key.b]; ok {
			w.Stock = cloneStock(st)
		}
		watches = append(watches, w)
	}
	sort.Slice(watches, func(i, j int) bool {
		if watches[i].Timestamp.Equal(watches[j].Timestamp) {
			return strings.Compare(watches[i].Stock.Ticker, watches[j].Stock.Ticker) < 0
		}
		return watches[i].Timestamp.After(watches[j].Timestamp)
	})
	return pagination.New(slicePage(watches, p.Offset(), p.PerPage), int64(len(watches)), p)
}

var _ repository.UserRepository = (*UserRepository)(nil)
