package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepwise/backend/internal/dto"
	"github.com/prepwise/backend/internal/store"
)

func newTestAuthService() (*AuthService, *TokenService, *store.MemoryUserStore) {
	users := store.NewMemoryUserStore()
	tokens := NewTokenService(testSecret, 24*time.Hour)
	return NewAuthService(users, tokens).WithHashCost(bcrypt.MinCost), tokens, users
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens, _ := newTestAuthService()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "success", reg.Status)
	assert.Equal(t, "User registered successfully", reg.Message)
	assert.Equal(t, "Ada", reg.User.Name)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", login.Message)
	assert.Equal(t, reg.User.ID, login.User.ID)

	sub, err := tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, sub)
}

func TestAuthService_PasswordIsHashed(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestAuthService()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "s3cret"})
	require.NoError(t, err)

	u, err := users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cret")))
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "one"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "Other", Email: "ada@example.com", Password: "two"})
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestAuthService_RegisterMissingFields(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	cases := []dto.RegisterRequest{
		{Email: "a@x.io", Password: "p"},
		{Name: "A", Password: "p"},
		{Name: "A", Email: "a@x.io"},
		{Name: "   ", Email: "a@x.io", Password: "p"},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, &req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestAuthService_InvalidCredentialsIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "right"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	_, unknownEmail := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "right"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_Profile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "p"})
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "success", profile.Status)
	assert.Equal(t, "ada@example.com", profile.User.Email)

	_, err = svc.Profile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.FindByID(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_RegisterPasswordByteLimit(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestAuthService()

	// 72 characters but 144 bytes.
	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: strings.Repeat("é", 72)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = users.FindByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: strings.Repeat("a", 72)})
	assert.NoError(t, err)
}
