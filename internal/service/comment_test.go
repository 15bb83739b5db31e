package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muru-backend/internal/apperr"
	"muru-backend/internal/model"
	"muru-backend/internal/policy"
)

func TestCommentOnPublicBoard(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	b := env.board(t, alice, "Trip", true)

	c, err := env.comments.Create(ctx, bob, CommentInput{BoardID: b.ID, Content: "  lovely  "})
	require.NoError(t, err)
	assert.Equal(t, "lovely", c.Content)
	require.NotNil(t, c.Author)
	assert.Equal(t, "bob", c.Author.Username)

	_, err = env.comments.Create(ctx, policy.Anonymous(), CommentInput{BoardID: b.ID, Content: "hi"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	list, err := env.comments.ListByBoard(ctx, policy.Anonymous(), b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestCommentOnPrivateBoard(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	b := env.board(t, alice, "Trip", false)

	_, err := env.comments.Create(ctx, bob, CommentInput{BoardID: b.ID, Content: "hi"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = env.comments.ListByBoard(ctx, bob, b.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = env.comments.Create(ctx, alice, CommentInput{BoardID: b.ID, Content: "note to self"})
	require.NoError(t, err)
}

func TestCommentValidation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	b := env.board(t, alice, "Trip", true)
	other := env.board(t, alice, "Other", true)

	post, err := env.posts.Create(ctx, alice, PostInput{BoardID: other.ID, ImagePath: "Uploads/a.png"})
	require.NoError(t, err)

	_, err = env.comments.Create(ctx, alice, CommentInput{BoardID: b.ID, PostID: &post.ID, Content: "wrong board"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	missing := post.ID + 1000
	_, err = env.comments.Create(ctx, alice, CommentInput{BoardID: b.ID, PostID: &missing, Content: "ghost"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.comments.Create(ctx, alice, CommentInput{BoardID: b.ID, Content: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.comments.Create(ctx, alice, CommentInput{BoardID: b.ID, Content: strings.Repeat("x", 2001)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.comments.Create(ctx, alice, CommentInput{BoardID: b.ID + 1000, Content: "hi"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteComment(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	b := env.board(t, alice, "Trip", true)

	byBob, err := env.comments.Create(ctx, bob, CommentInput{BoardID: b.ID, Content: "from bob"})
	require.NoError(t, err)
	another, err := env.comments.Create(ctx, bob, CommentInput{BoardID: b.ID, Content: "again"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.comments.Delete(ctx, carol, byBob.ID), apperr.ErrForbidden)
	assert.ErrorIs(t, env.comments.Delete(ctx, policy.Anonymous(), byBob.ID), apperr.ErrUnauthenticated)

	// 작성자
	require.NoError(t, env.comments.Delete(ctx, bob, byBob.ID))
	// 보드 소유자
	require.NoError(t, env.comments.Delete(ctx, alice, another.ID))

	assert.ErrorIs(t, env.comments.Delete(ctx, alice, another.ID), apperr.ErrNotFound)

	list, err := env.comments.ListByBoard(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteCommentWithoutBoard(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	b := env.board(t, alice, "Trip", true)

	post, err := env.posts.Create(ctx, alice, PostInput{BoardID: b.ID, ImagePath: "Uploads/p.png"})
	require.NoError(t, err)

	// 게시물만 가리키는 댓글은 게시물 보드의 소유자라도 삭제할 수 없음
	orphan := &model.Comment{PostID: &post.ID, Content: "hi", UserID: bob.UserID}
	require.NoError(t, env.repos.Comments.Create(ctx, orphan))

	err = env.comments.Delete(ctx, alice, orphan.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, env.comments.Delete(ctx, bob, orphan.ID))
}
