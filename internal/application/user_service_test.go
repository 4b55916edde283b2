package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	"github.com/greekgang/terminal/internal/infrastructure/memory"
	"github.com/greekgang/terminal/pkg/pagination"
	"github.com/greekgang/terminal/pkg/token"
)

const adminEmail = "boss@greekgang.example.com"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newUserService(t *testing.T, s *memory.Store) *UserService {
	t.Helper()
	require.NoError(t, s.Roles().InsertRoles(context.Background()))
	return &UserService{
		Users:  s.Users(),
		Roles:  s.Roles(),
		Stocks: s.Stocks(),
		Signer: token.NewSigner("test secret"),
		Logger: quietLogger(),

		AdminEmail:      adminEmail,
		ConfirmTokenTTL: time.Hour,
		AuthTokenTTL:    time.Hour,
		ConfirmURL:      "http://localhost:8080/api/v1/confirm",
		ResetURL:        "http://localhost:8080/api/v1/reset",
		ChangeEmailURL:  "http://localhost:8080/api/v1/change-email",
	}
}

func register(t *testing.T, svc *UserService, username, email string) *entity.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	s := memory.NewStore()
	svc := newUserService(t, s)

	u := register(t, svc, "nikos", "Nikos@UTDallas.edu")

	assert.Equal(t, "nikos@utdallas.edu", u.Email, "email should be case-normalized")
	assert.NotZero(t, u.ID)
	assert.False(t, u.Confirmed)
	assert.Equal(t, entity.DefaultRoleName, u.Role.Name)
	assert.True(t, u.Can(entity.PermWrite))
	assert.False(t, u.IsAdministrator())
	assert.Equal(t, u.GravatarHash(), u.AvatarHash)
	assert.Equal(t, 1, s.FollowCount(), "registration inserts exactly the self-follow edge")
}

func TestRegisterAdminEmail(t *testing.T) {
	svc := newUserService(t, memory.NewStore())

	u := register(t, svc, "boss", adminEmail)
	assert.Equal(t, entity.AdminRoleName, u.Role.Name)
	assert.True(t, u.IsAdministrator())
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	register(t, svc, "nikos", "nikos@utdallas.edu")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "other@utdallas.edu", Username: "nikos", Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "NIKOS@utdallas.edu", Username: "other", Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
}

func TestAuthenticate(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	register(t, svc, "nikos", "nikos@utdallas.edu")
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "NIKOS@utdallas.edu", "password123")
	require.NoError(t, err)
	assert.Equal(t, "nikos", u.Username)

	_, err = svc.Authenticate(ctx, "nikos@utdallas.edu", "wrong")
	assert.ErrorIs(t, err, domainerr.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody@utdallas.edu", "password123")
	assert.ErrorIs(t, err, domainerr.ErrUnauthorized)
}

func TestAuthTokenRoundTrip(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	u := register(t, svc, "nikos", "nikos@utdallas.edu")
	ctx := context.Background()

	tok, ttl, err := svc.IssueAuthToken(u, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	resolved, err := svc.ResolveAuthToken(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	_, err = svc.ResolveAuthToken(ctx, tok+"x")
	assert.ErrorIs(t, err, domainerr.ErrUnauthorized)
}

func TestConfirm(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	u := register(t, svc, "nikos", "nikos@utdallas.edu")
	other := register(t, svc, "eleni", "eleni@utdallas.edu")
	ctx := context.Background()

	// a token minted for someone else must not confirm u
	otherTok, err := svc.Signer.GenerateConfirm(other.ID, time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Confirm(ctx, u, otherTok), domainerr.ErrUnauthorized)
	assert.False(t, u.Confirmed)

	tok, err := svc.Signer.GenerateConfirm(u.ID, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, u, tok))
	assert.True(t, u.Confirmed)

	stored, err := svc.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)

	// reconfirming is a no-op even with a garbage token
	assert.NoError(t, svc.Confirm(ctx, u, "garbage"))
}

func TestResetPassword(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	u := register(t, svc, "nikos", "nikos@utdallas.edu")
	ctx := context.Background()

	// unknown addresses never error, so the endpoint cannot enumerate
	svc.RequestPasswordReset(ctx, "nobody@utdallas.edu")

	tok, err := svc.Signer.GenerateReset(u.ID, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.ResetPassword(ctx, tok, "newpassword456"))

	_, err = svc.Authenticate(ctx, u.Email, "password123")
	assert.ErrorIs(t, err, domainerr.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, u.Email, "newpassword456")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "garbage", "whatever789"), domainerr.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	u := register(t, svc, "nikos", "nikos@utdallas.edu")
	ctx := context.Background()

	assert.ErrorIs(t, svc.ChangePassword(ctx, u, "wrong", "newpassword456"), domainerr.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, u, "password123", "newpassword456"))
	_, err := svc.Authenticate(ctx, u.Email, "newpassword456")
	assert.NoError(t, err)
}

func TestChangeEmail(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	u := register(t, svc, "nikos", "nikos@utdallas.edu")
	register(t, svc, "eleni", "eleni@utdallas.edu")
	ctx := context.Background()

	// the new address collides with an existing account
	tok, err := svc.Signer.GenerateEmailChange(u.ID, "eleni@utdallas.edu", time.Hour)
	require.NoError(t, err)
	err = svc.ChangeEmail(ctx, u, tok)
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))

	tok, err = svc.Signer.GenerateEmailChange(u.ID, "nikos@gmail.com", time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.ChangeEmail(ctx, u, tok))

	stored, err := svc.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "nikos@gmail.com", stored.Email)
	assert.Equal(t, stored.GravatarHash(), stored.AvatarHash, "avatar fingerprint follows the address")
}

func TestRequestEmailChangeNeedsPassword(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	u := register(t, svc, "nikos", "nikos@utdallas.edu")

	err := svc.RequestEmailChange(context.Background(), u, "nikos@gmail.com", "wrong")
	assert.ErrorIs(t, err, domainerr.ErrUnauthorized)
}

func TestFollowUnfollow(t *testing.T) {
	s := memory.NewStore()
	svc := newUserService(t, s)
	nikos := register(t, svc, "nikos", "nikos@utdallas.edu")
	register(t, svc, "eleni", "eleni@utdallas.edu")
	ctx := context.Background()

	assert.Equal(t, 2, s.FollowCount(), "two self-follows")

	_, err := svc.Follow(ctx, nikos, "eleni")
	require.NoError(t, err)
	assert.Equal(t, 3, s.FollowCount())

	// following again changes nothing
	_, err = svc.Follow(ctx, nikos, "eleni")
	require.NoError(t, err)
	assert.Equal(t, 3, s.FollowCount())

	followers, err := svc.Followers(ctx, "eleni", pagination.Params{Page: 1, PerPage: 50})
	require.NoError(t, err)
	names := make([]string, 0, len(followers.Items))
	for _, f := range followers.Items {
		names = append(names, f.Follower.Username)
	}
	assert.ElementsMatch(t, []string{"nikos", "eleni"}, names)

	followed, err := svc.Followed(ctx, "nikos", pagination.Params{Page: 1, PerPage: 50})
	require.NoError(t, err)
	assert.Len(t, followed.Items, 2)

	_, err = svc.Unfollow(ctx, nikos, "eleni")
	require.NoError(t, err)
	assert.Equal(t, 2, s.FollowCount())

	// unfollowing again is still fine
	_, err = svc.Unfollow(ctx, nikos, "eleni")
	require.NoError(t, err)

	_, err = svc.Follow(ctx, nikos, "nobody")
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}

func TestWatchUnwatch(t *testing.T) {
	s := memory.NewStore()
	svc := newUserService(t, s)
	nikos := register(t, svc, "nikos", "nikos@utdallas.edu")
	ctx := context.Background()

	require.NoError(t, s.Stocks().Create(ctx, &entity.Stock{Name: "Apple", Ticker: "AAPL", Sector: "Tech", IsActive: true, YearHigh: 1000, YearLow: 100}))

	w, err := svc.Watch(ctx, nikos, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", w.Stock.Ticker)
	assert.Equal(t, "nikos", w.User.Username)

	_, err = svc.Watch(ctx, nikos, "AAPL")
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
	assert.EqualError(t, err, "user is already watching stock")

	list, err := svc.Watchlist(ctx, nikos, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "AAPL", list.Items[0].Stock.Ticker)

	require.NoError(t, svc.Unwatch(ctx, nikos, "AAPL"))

	err = svc.Unwatch(ctx, nikos, "AAPL")
	require.Error(t, err)
	assert.EqualError(t, err, "user is not watching stock")

	_, err = svc.Watch(ctx, nikos, "NOPE")
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc := newUserService(t, memory.NewStore())
	u := register(t, svc, "nikos", "nikos@utdallas.edu")
	ctx := context.Background()

	require.NoError(t, svc.UpdateProfile(ctx, u, UpdateProfileInput{
		Name: "Nikos P", Location: "Dallas, TX", AboutMe: "value investor",
	}))

	stored, err := svc.GetByUsername(ctx, "nikos")
	require.NoError(t, err)
	assert.Equal(t, "Nikos P", stored.Name)
	assert.Equal(t, "Dallas, TX", stored.Location)
	assert.Equal(t, "value investor", stored.AboutMe)
}

func TestDeleteCascades(t *testing.T) {
	s := memory.NewStore()
	svc := newUserService(t, s)
	nikos := register(t, svc, "nikos", "nikos@utdallas.edu")
	eleni := register(t, svc, "eleni", "eleni@utdallas.edu")
	ctx := context.Background()

	_, err := svc.Follow(ctx, nikos, "eleni")
	require.NoError(t, err)

	aapl := &entity.Stock{Name: "Apple", Ticker: "AAPL", Sector: "Tech", IsActive: true}
	require.NoError(t, s.Stocks().Create(ctx, aapl))
	require.NoError(t, s.Trades().Create(ctx, &entity.Trade{StockID: aapl.ID, UserID: nikos.ID, Quantity: 1, Price: 10}))

	require.NoError(t, svc.Delete(ctx, nikos))
	_, err = svc.GetByUsername(ctx, "nikos")
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
	assert.Equal(t, 1, s.FollowCount(), "only eleni's self-follow remains")

	// trades go with the account, matching the schema cascade
	n, err := s.Trades().CountByUser(ctx, nikos.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_ = eleni
}
