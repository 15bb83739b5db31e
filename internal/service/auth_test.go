package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muru-backend/internal/apperr"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, RegisterInput{
		Email:     "  Alice@Muru.Test ",
		Username:  "alice",
		Password:  testPassword,
		FirstName: strPtr("Alice"),
		LastName:  strPtr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@muru.test", user.Email)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	require.NotNil(t, user.FirstName)
	assert.Nil(t, user.LastName)

	res, err := env.auth.Login(ctx, LoginInput{Email: "ALICE@muru.test", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	claims, err := env.jwt.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Empty(t, claims.Roles)
}

func TestLoginRolesAndDistinctTokens(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	require.NoError(t, env.repos.Users.AssignRole(ctx, alice.UserID, "Admin"))

	first, err := env.auth.Login(ctx, LoginInput{Email: "alice@muru.test", Password: testPassword})
	require.NoError(t, err)
	second, err := env.auth.Login(ctx, LoginInput{Email: "alice@muru.test", Password: testPassword})
	require.NoError(t, err)

	c1, err := env.jwt.ValidateToken(first.Token)
	require.NoError(t, err)
	c2, err := env.jwt.ValidateToken(second.Token)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, c1.Subject, c2.Subject)
	assert.Equal(t, c1.Email, c2.Email)
	assert.Equal(t, []string{"Admin"}, c1.Roles)
	assert.Equal(t, c1.Roles, c2.Roles)

	// 응답의 만료 시각은 토큰에 서명된 exp 그대로
	assert.True(t, first.ExpiresAt.Equal(c1.ExpiresAt.Time), "%s != %s", first.ExpiresAt, c1.ExpiresAt.Time)
	assert.True(t, second.ExpiresAt.Equal(c2.ExpiresAt.Time))
}

func TestLoginFailures(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	_, err := env.auth.Login(ctx, LoginInput{Email: "alice@muru.test", Password: "Wrong#1234"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.EqualError(t, err, "Invalid email or password")

	_, err = env.auth.Login(ctx, LoginInput{Email: "nobody@muru.test", Password: testPassword})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = env.auth.Login(ctx, LoginInput{Email: "not-an-email", Password: testPassword})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegisterRejectsDuplicatesWithoutWriting(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	_, err := env.auth.Register(ctx, RegisterInput{Email: "ALICE@muru.test", Username: "other", Password: testPassword})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.EqualError(t, err, "Email address is already in use")

	_, err = env.auth.Register(ctx, RegisterInput{Email: "other@muru.test", Username: "Alice", Password: testPassword})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.EqualError(t, err, "Username is already taken")

	_, err = env.repos.Users.FindByEmail(ctx, "other@muru.test")
	assert.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"bad email":     {Email: "nope", Username: "alice", Password: testPassword},
		"no username":   {Email: "a@muru.test", Username: " ", Password: testPassword},
		"bad username":  {Email: "a@muru.test", Username: "al ice", Password: testPassword},
		"weak password": {Email: "a@muru.test", Username: "alice", Password: "password"},
		"no password":   {Email: "a@muru.test", Username: "alice"},
	}
	for name, in := range cases {
		_, err := env.auth.Register(ctx, in)
		assert.ErrorIs(t, err, apperr.ErrValidation, name)
	}
}

func TestProfile(t *testing.T) {
	env := newEnv(t)
	alice := env.register(t, "alice")

	user, err := env.auth.Profile(context.Background(), alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = env.auth.Profile(context.Background(), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
