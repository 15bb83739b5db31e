package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muru-backend/internal/apperr"
	"muru-backend/internal/storage"
)

const pixelBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestMeCounts(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	b := env.board(t, alice, "Trip", true)
	env.board(t, alice, "Other", false)
	_, err := env.posts.Create(ctx, alice, PostInput{BoardID: b.ID, ImagePath: "Uploads/a.png"})
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, bob, CommentInput{BoardID: b.ID, Content: "hi"})
	require.NoError(t, err)

	me, err := env.users.Me(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.User.Username)
	assert.EqualValues(t, 2, me.BoardsCount)
	assert.EqualValues(t, 1, me.PostsCount)
	assert.EqualValues(t, 0, me.CommentsCount)

	other, err := env.users.Me(ctx, bob.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, other.CommentsCount)

	_, err = env.users.Me(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPublicProfile(t *testing.T) {
	env := newEnv(t)
	alice := env.register(t, "alice")

	user, err := env.users.PublicProfile(context.Background(), alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = env.users.PublicProfile(context.Background(), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAvatarFromUpload(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	body, err := base64.StdEncoding.DecodeString(pixelBase64)
	require.NoError(t, err)

	ref, err := env.users.SetAvatarFromUpload(ctx, alice.UserID, storage.File{
		OriginalName: "me.png",
		ContentType:  "image/png",
		Size:         int64(len(body)),
		Body:         bytes.NewReader(body),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "Uploads/ProfileImages/"), ref)

	_, err = os.Stat(filepath.Join(env.root, filepath.FromSlash(ref)))
	require.NoError(t, err)

	user, err := env.repos.Users.FindByID(ctx, alice.UserID)
	require.NoError(t, err)
	require.NotNil(t, user.ProfileImageURL)
	assert.Equal(t, ref, *user.ProfileImageURL)
}

func TestAvatarFromData(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	ref, err := env.users.SetAvatarFromData(ctx, alice.UserID, "data:image/png;base64,"+pixelBase64)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)

	_, err = env.users.SetAvatarFromData(ctx, alice.UserID, "not base64 at all!")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAvatarFromPath(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	ref, err := env.users.SetAvatarFromPath(ctx, alice.UserID, "Uploads/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "Uploads/abc.png", ref)

	for _, bad := range []string{"", "https://evil.test/x.png", "Uploads/../etc/passwd"} {
		_, err := env.users.SetAvatarFromPath(ctx, alice.UserID, bad)
		assert.ErrorIs(t, err, apperr.ErrValidation, bad)
	}
}

func TestUpdateAccount(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	env.register(t, "bob")

	user, err := env.users.UpdateAccount(ctx, alice.UserID, AccountInput{Username: "alice2"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", user.Username)
	assert.Equal(t, "alice@muru.test", user.Email)

	_, err = env.users.UpdateAccount(ctx, alice.UserID, AccountInput{Email: "BOB@muru.test"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.users.UpdateAccount(ctx, alice.UserID, AccountInput{Username: "bob"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.users.UpdateAccount(ctx, alice.UserID, AccountInput{Username: "has space"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// 자기 자신의 현재 값은 중복이 아님
	user, err = env.users.UpdateAccount(ctx, alice.UserID, AccountInput{Username: "alice2", Email: "Alice@muru.test"})
	require.NoError(t, err)
	assert.Equal(t, "alice@muru.test", user.Email)
}

func TestRenameRefreshesPublicListing(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	env.board(t, alice, "Trip", true)

	public, err := env.boards.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.True(t, env.cache.hit)

	// 이름 외의 변경은 목록을 건드리지 않음
	before := env.cache.invalidated
	_, err = env.users.UpdateAccount(ctx, alice.UserID, AccountInput{Email: "alice.new@muru.test"})
	require.NoError(t, err)
	assert.Equal(t, before, env.cache.invalidated)

	_, err = env.users.UpdateAccount(ctx, alice.UserID, AccountInput{Username: "alice2"})
	require.NoError(t, err)
	assert.False(t, env.cache.hit)

	public, err = env.boards.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.NotNil(t, public[0].Owner)
	assert.Equal(t, "alice2", public[0].Owner.Username)
}

func TestUpdatePersonalKeepsBlankFields(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	user, err := env.users.UpdatePersonal(ctx, alice.UserID, PersonalInput{FirstName: "Alice", LastName: "Kim"})
	require.NoError(t, err)
	require.NotNil(t, user.FirstName)

	user, err = env.users.UpdatePersonal(ctx, alice.UserID, PersonalInput{LastName: "Park"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", *user.FirstName)
	assert.Equal(t, "Park", *user.LastName)
}

func TestChangePassword(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	err := env.users.ChangePassword(ctx, alice.UserID, PasswordInput{CurrentPassword: "Wrong#1234", NewPassword: "Better#456"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.EqualError(t, err, "Incorrect password.")

	err = env.users.ChangePassword(ctx, alice.UserID, PasswordInput{CurrentPassword: testPassword, NewPassword: "weak"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, env.users.ChangePassword(ctx, alice.UserID, PasswordInput{CurrentPassword: testPassword, NewPassword: "Better#456"}))

	_, err = env.auth.Login(ctx, LoginInput{Email: "alice@muru.test", Password: testPassword})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = env.auth.Login(ctx, LoginInput{Email: "alice@muru.test", Password: "Better#456"})
	assert.NoError(t, err)
}
