package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/greekgang/terminal/internal/domain/domainerr"
	"github.com/greekgang/terminal/internal/domain/entity"
	repo "github.com/greekgang/terminal/internal/domain/repository"
	"github.com/greekgang/terminal/pkg/helpers"
	"github.com/greekgang/terminal/pkg/mailer"
	"github.com/greekgang/terminal/pkg/pagination"
	"github.com/greekgang/terminal/pkg/token"
)

// UserService owns registration, credentials, the token confirmation flows
// and the follow/watch edges.
type UserService struct {
	Users  repo.UserRepository
	Roles  repo.RoleRepository
	Stocks repo.StockRepository
	Signer *token.Signer
	Logger *logrus.Logger

	Pub          *helpers.RabbitPublisher
	ES           *elasticsearch.Client
	ESUsersIndex string

	AdminEmail      string
	ConfirmTokenTTL time.Duration
	AuthTokenTTL    time.Duration
	ConfirmURL      string
	ResetURL        string
	ChangeEmailURL  string
}

// RegisterInput is the accepted registration payload.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates an account. The email is case-normalized; the password is
// hashed and discarded; the role defaults unless the email matches the
// configured administrator address; a self-follow edge is inserted with the
// row. The duplicate pre-checks are advisory UX; the store's unique
// constraints are what hold under concurrent registration.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return nil, domainerr.NewValidation("username already in use")
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, domainerr.NewValidation("email already in use")
	}

	role, err := s.resolveRole(ctx, email)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Username: in.Username,
		Email:    email,
		RoleID:   role.ID,
		Role:     role,
	}
	if err := u.SetPassword(in.Password); err != nil {
		return nil, err
	}
	u.AvatarHash = u.GravatarHash()

	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.SendConfirmation(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user", u.Username).Warn("confirmation email enqueue failed")
	}
	s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) resolveRole(ctx context.Context, email string) (*entity.Role, error) {
	if s.AdminEmail != "" && email == s.AdminEmail {
		return s.Roles.GetByName(ctx, entity.AdminRoleName)
	}
	return s.Roles.GetDefault(ctx)
}

// Authenticate resolves an email/password pair to a user. Failures are
// indistinguishable between unknown address and wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil || !u.VerifyPassword(password) {
		return nil, domainerr.ErrUnauthorized
	}
	return u, nil
}

// IssueAuthToken mints a bearer token for API calls.
func (s *UserService) IssueAuthToken(u *entity.User, ttl time.Duration) (string, time.Duration, error) {
	if ttl <= 0 {
		ttl = s.AuthTokenTTL
	}
	t, err := s.Signer.GenerateAuth(u.ID, ttl)
	return t, ttl, err
}

// ResolveAuthToken maps a bearer token back to a user, failing closed.
func (s *UserService) ResolveAuthToken(ctx context.Context, tokenStr string) (*entity.User, error) {
	uid, err := s.Signer.ParseAuth(tokenStr)
	if err != nil {
		return nil, domainerr.ErrUnauthorized
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		return nil, domainerr.ErrUnauthorized
	}
	return u, nil
}

// SendConfirmation enqueues the account-confirmation email.
func (s *UserService) SendConfirmation(ctx context.Context, u *entity.User) error {
	t, err := s.Signer.GenerateConfirm(u.ID, s.ConfirmTokenTTL)
	if err != nil {
		return err
	}
	return s.enqueueEmail(ctx, u.Email, "confirm_account", map[string]any{
		"Username": u.Username,
		"Link":     s.ConfirmURL + "/" + t,
	})
}

// Confirm redeems an account-confirmation token for u. Confirming an
// already-confirmed account is a successful no-op.
func (s *UserService) Confirm(ctx context.Context, u *entity.User, tokenStr string) error {
	if u.Confirmed {
		return nil
	}
	uid, err := s.Signer.ParseConfirm(tokenStr)
	if err != nil {
		return domainerr.ErrUnauthorized
	}
	if uid != u.ID {
		return domainerr.ErrUnauthorized
	}
	if err := s.Users.SetConfirmed(ctx, u.ID); err != nil {
		return err
	}
	u.Confirmed = true
	return nil
}

// RequestPasswordReset enqueues a reset email if the address is known. The
// caller always sees success so addresses cannot be enumerated.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return
	}
	t, err := s.Signer.GenerateReset(u.ID, s.ConfirmTokenTTL)
	if err != nil {
		s.Logger.WithError(err).Warn("reset token generation failed")
		return
	}
	if err := s.enqueueEmail(ctx, u.Email, "reset_password", map[string]any{
		"Username": u.Username,
		"Link":     s.ResetURL + "/" + t,
	}); err != nil {
		s.Logger.WithError(err).WithField("user", u.Username).Warn("reset email enqueue failed")
	}
}

// ResetPassword redeems a reset token and installs the new password.
func (s *UserService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	uid, err := s.Signer.ParseReset(tokenStr)
	if err != nil {
		return domainerr.ErrUnauthorized
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		return domainerr.ErrUnauthorized
	}
	if err := u.SetPassword(newPassword); err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.ID, u.PasswordHash)
}

// ChangePassword swaps the password after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, u *entity.User, oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return domainerr.ErrUnauthorized
	}
	if err := u.SetPassword(newPassword); err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.ID, u.PasswordHash)
}

// RequestEmailChange verifies the password and mails a change token to the
// address the account wants to move to.
func (s *UserService) RequestEmailChange(ctx context.Context, u *entity.User, newEmail, password string) error {
	if !u.VerifyPassword(password) {
		return domainerr.ErrUnauthorized
	}
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	t, err := s.Signer.GenerateEmailChange(u.ID, newEmail, s.ConfirmTokenTTL)
	if err != nil {
		return err
	}
	return s.enqueueEmail(ctx, newEmail, "change_email", map[string]any{
		"Username": u.Username,
		"Link":     s.ChangeEmailURL + "/" + t,
	})
}

// ChangeEmail redeems an email-change token. The new address travels inside
// the signed payload; a collision with an existing account fails without
// mutating anything.
func (s *UserService) ChangeEmail(ctx context.Context, u *entity.User, tokenStr string) error {
	uid, newEmail, err := s.Signer.ParseEmailChange(tokenStr)
	if err != nil {
		return domainerr.ErrUnauthorized
	}
	if uid != u.ID {
		return domainerr.ErrUnauthorized
	}
	if _, err := s.Users.GetByEmail(ctx, newEmail); err == nil {
		return domainerr.NewValidation("email already in use")
	}
	u.Email = newEmail
	avatar := u.GravatarHash()
	if err := s.Users.UpdateEmail(ctx, u.ID, newEmail, avatar); err != nil {
		return err
	}
	u.AvatarHash = avatar
	s.indexUser(ctx, u)
	return nil
}

// Ping stamps last-seen; invoked by the auth middleware on every
// authenticated request.
func (s *UserService) Ping(ctx context.Context, u *entity.User) {
	if err := s.Users.Ping(ctx, u.ID); err != nil {
		s.Logger.WithError(err).WithField("user", u.Username).Warn("last-seen update failed")
	}
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.Users.GetByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context, p pagination.Params) (pagination.Page[*entity.User], error) {
	return s.Users.List(ctx, p)
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	Name     string
	Location string
	AboutMe  string
}

func (s *UserService) UpdateProfile(ctx context.Context, u *entity.User, in UpdateProfileInput) error {
	u.Name = in.Name
	u.Location = in.Location
	u.AboutMe = in.AboutMe
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	s.indexUser(ctx, u)
	return nil
}

// Delete removes the account; the store cascades its follow and watch edges.
func (s *UserService) Delete(ctx context.Context, u *entity.User) error {
	return s.Users.Delete(ctx, u.ID)
}

// Follow adds the edge from follower to the named user; redundant calls are
// no-ops, not errors.
func (s *UserService) Follow(ctx context.Context, follower *entity.User, username string) (*entity.User, error) {
	target, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Follow(ctx, follower.ID, target.ID); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserService) Unfollow(ctx context.Context, follower *entity.User, username string) (*entity.User, error) {
	target, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Unfollow(ctx, follower.ID, target.ID); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserService) Followers(ctx context.Context, username string, p pagination.Params) (pagination.Page[*entity.Follow], error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return pagination.Page[*entity.Follow]{}, err
	}
	return s.Users.Followers(ctx, u.ID, p)
}

func (s *UserService) Followed(ctx context.Context, username string, p pagination.Params) (pagination.Page[*entity.Follow], error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return pagination.Page[*entity.Follow]{}, err
	}
	return s.Users.Followed(ctx, u.ID, p)
}

// Watch marks interest in a stock. Watching a stock twice is a
// ValidationError at this surface: the caller asked for a state change that
// cannot happen.
func (s *UserService) Watch(ctx context.Context, u *entity.User, ticker string) (*entity.Watch, error) {
	stock, err := s.Stocks.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	watching, err := s.Users.IsWatching(ctx, u.ID, stock.ID)
	if err != nil {
		return nil, err
	}
	if watching {
		return nil, domainerr.NewValidation("user is already watching stock")
	}
	if err := s.Users.Watch(ctx, u.ID, stock.ID); err != nil {
		return nil, err
	}
	return &entity.Watch{UserID: u.ID, StockID: stock.ID, User: u, Stock: stock, Timestamp: time.Now().UTC()}, nil
}

func (s *UserService) Unwatch(ctx context.Context, u *entity.User, ticker string) error {
	stock, err := s.Stocks.GetByTicker(ctx, ticker)
	if err != nil {
		return err
	}
	watching, err := s.Users.IsWatching(ctx, u.ID, stock.ID)
	if err != nil {
		return err
	}
	if !watching {
		return domainerr.NewValidation("user is not watching stock")
	}
	return s.Users.Unwatch(ctx, u.ID, stock.ID)
}

func (s *UserService) Watchlist(ctx context.Context, u *entity.User, p pagination.Params) (pagination.Page[*entity.Watch], error) {
	return s.Users.Watchlist(ctx, u.ID, p)
}

func (s *UserService) enqueueEmail(ctx context.Context, to, template string, data map[string]any) error {
	if s.Pub == nil {
		return nil
	}
	return s.Pub.PublishJSON(ctx, mailer.EmailJob{To: to, Template: template, Data: data})
}

// indexUser pushes the searchable profile fields into Elasticsearch.
// Indexing is best-effort; the store remains the source of truth.
func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"username": u.Username,
		"email":    u.Email,
		"name":     u.Name,
		"about_me": u.AboutMe,
		"location": u.Location,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: strconv.FormatInt(u.ID, 10), Body: strings.NewReader(string(b))}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("user", u.Username).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("user", u.Username).Warn("es index response error")
	}
}

// SearchUsers ranks users against the indexed profile fields.
func (s *UserService) SearchUsers(ctx context.Context, q string, p pagination.Params) (pagination.Page[map[string]any], error) {
	return searchIndex(ctx, s.ES, s.ESUsersIndex, q, []string{"username^2", "email", "name", "about_me", "location"}, p)
}
