package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/anon-forum/internal/repository"
	"github.com/yukikurage/anon-forum/internal/testutil"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.NewDB(t)
	return NewAuthService(repository.NewUserRepository(db), zap.NewNop())
}

func TestAuthService_FirstUserIsAdmin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, SignupInput{Username: "founder", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, first.IsAdmin)

	second, err := svc.Signup(ctx, SignupInput{Username: "member", Password: "secret1"})
	require.NoError(t, err)
	assert.False(t, second.IsAdmin)
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "ab", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameLength)

	_, err = svc.Signup(ctx, SignupInput{Username: strings.Repeat("x", 81), Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameLength)

	_, err = svc.Signup(ctx, SignupInput{Username: "validname", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Signup(ctx, SignupInput{Username: " taken ", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, SignupInput{Username: "taken", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Username: "existing", Password: "supersecret"})
	require.NoError(t, err)

	got, err := svc.Login(ctx, LoginInput{Username: "existing", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(ctx, LoginInput{Username: "existing", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Username: "missing", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_BannedCannotLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "admin", Password: "supersecret"})
	require.NoError(t, err)
	user, err := svc.Signup(ctx, SignupInput{Username: "troll", Password: "supersecret"})
	require.NoError(t, err)
	require.NoError(t, svc.userRepo.SetBanned(ctx, user.ID, true))

	_, err = svc.Login(ctx, LoginInput{Username: "troll", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrAccountBanned)
}

func TestAuthService_EnsureBootstrapAdmin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureBootstrapAdmin(ctx, "", "ignored")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.EnsureBootstrapAdmin(ctx, "root", "rootpass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureBootstrapAdmin(ctx, "root2", "rootpass")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := svc.Login(ctx, LoginInput{Username: "root", Password: "rootpass"})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}
