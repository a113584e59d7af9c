package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
	"github.com/tentenpanashe01/retail-backend/internal/domain/auth"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[id.ID]auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[id.ID]auth.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, u *auth.User) error {
	return r.Create(ctx, u)
}

func (r *memUserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID)
	}
	return &u, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *memUserRepo) Exists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if apperror.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (r *memUserRepo) List(ctx context.Context) ([]auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]auth.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func newService() (*auth.Service, *memUserRepo) {
	repo := newMemUserRepo()
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	return auth.NewService(repo, jwtSvc, auth.DefaultServiceConfig()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, auth.RegisterRequest{
		Username: "tinashe",
		Password: "s3cret-pass",
		FullName: "Tinashe M.",
		Role:     auth.RoleManager,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	resp, err := svc.Login(ctx, auth.Credentials{Username: "tinashe", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	require.NotNil(t, resp.User.LastLoginAt)

	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	actor, err := jwtSvc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), actor.UserID)
	assert.Equal(t, string(auth.RoleManager), actor.Role)
}

func TestLogin_WrongPasswordLocksAccount(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, auth.RegisterRequest{
		Username: "rudo",
		Password: "correct-horse",
		Role:     auth.RoleAdmin,
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = svc.Login(ctx, auth.Credentials{Username: "rudo", Password: "wrong"})
		require.Error(t, err)
	}

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLocked())

	// Correct password is rejected while locked.
	_, err = svc.Login(ctx, auth.Credentials{Username: "rudo", Password: "correct-horse"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestRegister_RejectsDuplicateAndShortPassword(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, auth.RegisterRequest{
		Username: "farai", Password: "long-enough", Role: auth.RoleManager,
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, auth.RegisterRequest{
		Username: "farai", Password: "long-enough", Role: auth.RoleManager,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)

	_, err = svc.Register(ctx, auth.RegisterRequest{
		Username: "shorty", Password: "short", Role: auth.RoleManager,
	})
	require.Error(t, err)
}

func TestRegister_CashierRequiresShop(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Username: "till-1", Password: "long-enough", Role: auth.RoleCashier,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	shopID := id.New()
	_, err = svc.Register(context.Background(), auth.RegisterRequest{
		Username: "till-2", Password: "long-enough", Role: auth.RoleCashier, ShopID: &shopID,
	})
	require.NoError(t, err)
}
