// Package repotest 저장소 구현체 공통 동작 검증 스위트
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muru-backend/internal/model"
	"muru-backend/internal/repository"
)

// TestRepositories 모든 구현체가 통과해야 하는 시나리오 실행. newRepos는 매번 빈 저장소를 반환해야 함
func TestRepositories(t *testing.T, newRepos func() *repository.Repositories) {
	t.Run("users", func(t *testing.T) { testUsers(t, newRepos()) })
	t.Run("roles", func(t *testing.T) { testRoles(t, newRepos()) })
	t.Run("boards", func(t *testing.T) { testBoards(t, newRepos()) })
	t.Run("posts and comments", func(t *testing.T) { testPostsAndComments(t, newRepos()) })
	t.Run("board delete cascades", func(t *testing.T) { testBoardCascade(t, newRepos()) })
	t.Run("post delete cascades", func(t *testing.T) { testPostCascade(t, newRepos()) })
	t.Run("counts", func(t *testing.T) { testCounts(t, newRepos()) })
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func mustUser(t *testing.T, repos *repository.Repositories, username string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        username + "@muru.test",
		Username:     username,
		PasswordHash: "hash",
	}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func mustBoard(t *testing.T, repos *repository.Repositories, ownerID int64, title string, public bool, at time.Time) *model.Board {
	t.Helper()
	board := &model.Board{Title: title, IsPublic: public, UserID: ownerID, CreatedAt: at}
	require.NoError(t, repos.Boards.Create(context.Background(), board))
	require.NotZero(t, board.ID)
	return board
}

func testUsers(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	alice := mustUser(t, repos, "alice")

	got, err := repos.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@muru.test", got.Email)

	got, err = repos.Users.FindByEmail(ctx, "ALICE@muru.test")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repos.Users.FindByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repos.Users.FindByID(ctx, alice.ID+1000)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Users.FindByEmail(ctx, "nobody@muru.test")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dup := &model.User{Email: "alice@muru.test", Username: "alice2", PasswordHash: "hash"}
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), repository.ErrDuplicate)
	dup = &model.User{Email: "other@muru.test", Username: "alice", PasswordHash: "hash"}
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), repository.ErrDuplicate)

	alice.FirstName = strPtr("Alice")
	alice.ProfileImageURL = strPtr("Uploads/ProfileImages/1_a.png")
	require.NoError(t, repos.Users.Update(ctx, alice))

	got, err = repos.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Alice", *got.FirstName)
	require.NotNil(t, got.ProfileImageURL)
	assert.Equal(t, "Uploads/ProfileImages/1_a.png", *got.ProfileImageURL)

	bob := mustUser(t, repos, "bob")
	bob.Email = "alice@muru.test"
	assert.ErrorIs(t, repos.Users.Update(ctx, bob), repository.ErrDuplicate)

	missing := &model.User{ID: alice.ID + 1000, Email: "x@muru.test", Username: "x"}
	assert.ErrorIs(t, repos.Users.Update(ctx, missing), repository.ErrNotFound)
}

func testRoles(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	alice := mustUser(t, repos, "alice")

	require.NoError(t, repos.Users.AssignRole(ctx, alice.ID, "User"))
	require.NoError(t, repos.Users.AssignRole(ctx, alice.ID, "Admin"))
	require.NoError(t, repos.Users.AssignRole(ctx, alice.ID, "Admin"))

	got, err := repos.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Admin", "User"}, got.RoleNames())

	require.NoError(t, repos.Users.RemoveRole(ctx, alice.ID, "Admin"))
	got, err = repos.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, got.RoleNames())
	assert.False(t, got.HasRole("Admin"))

	assert.ErrorIs(t, repos.Users.AssignRole(ctx, alice.ID+1000, "User"), repository.ErrNotFound)
	assert.ErrorIs(t, repos.Users.RemoveRole(ctx, alice.ID, "Ghost"), repository.ErrNotFound)
}

func testBoards(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	alice := mustUser(t, repos, "alice")
	bob := mustUser(t, repos, "bob")

	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
	older := mustBoard(t, repos, alice.ID, "Summer", true, base)
	newer := mustBoard(t, repos, alice.ID, "Winter", false, base.Add(time.Minute))
	bobs := mustBoard(t, repos, bob.ID, "Bob's", true, base.Add(2*time.Minute))

	got, err := repos.Boards.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer", got.Title)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "alice", got.Owner.Username)

	mine, err := repos.Boards.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)

	public, err := repos.Boards.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, bobs.ID, public[0].ID)
	assert.Equal(t, older.ID, public[1].ID)

	now := time.Now()
	older.Title = "Summer 2026"
	older.Description = "beach"
	older.IsPublic = false
	older.UpdatedAt = &now
	require.NoError(t, repos.Boards.Update(ctx, older))

	got, err = repos.Boards.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer 2026", got.Title)
	assert.Equal(t, "beach", got.Description)
	assert.False(t, got.IsPublic)
	assert.NotNil(t, got.UpdatedAt)

	assert.ErrorIs(t, repos.Boards.Update(ctx, &model.Board{ID: bobs.ID + 1000, Title: "x"}), repository.ErrNotFound)
	assert.ErrorIs(t, repos.Boards.Delete(ctx, bobs.ID+1000), repository.ErrNotFound)
	_, err = repos.Boards.FindByID(ctx, bobs.ID+1000)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testPostsAndComments(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	alice := mustUser(t, repos, "alice")
	board := mustBoard(t, repos, alice.ID, "Trip", true, time.Time{})

	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
	first := &model.Post{BoardID: board.ID, ImageURL: "Uploads/a.png", UserID: alice.ID, CreatedAt: base}
	second := &model.Post{BoardID: board.ID, ImageURL: "Uploads/b.png", Note: strPtr("sunset"), UserID: alice.ID, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repos.Posts.Create(ctx, first))
	require.NoError(t, repos.Posts.Create(ctx, second))

	post, err := repos.Posts.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Uploads/b.png", post.ImageURL)
	require.NotNil(t, post.Board)
	assert.Equal(t, board.ID, post.Board.ID)

	posts, err := repos.Posts.ListByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)

	c1 := &model.Comment{BoardID: int64Ptr(board.ID), Content: "first", UserID: alice.ID, CreatedAt: base}
	c2 := &model.Comment{BoardID: int64Ptr(board.ID), PostID: int64Ptr(first.ID), Content: "second", UserID: alice.ID, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repos.Comments.Create(ctx, c1))
	require.NoError(t, repos.Comments.Create(ctx, c2))

	comment, err := repos.Comments.FindByID(ctx, c2.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", comment.Content)
	require.NotNil(t, comment.Board)
	assert.Equal(t, board.ID, comment.Board.ID)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "alice", comment.Author.Username)

	comments, err := repos.Comments.ListByBoard(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, c2.ID, comments[0].ID)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "alice", comments[0].Author.Username)

	require.NoError(t, repos.Comments.Delete(ctx, c1.ID))
	_, err = repos.Comments.FindByID(ctx, c1.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repos.Comments.Delete(ctx, c1.ID), repository.ErrNotFound)
}

func testBoardCascade(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	alice := mustUser(t, repos, "alice")
	doomed := mustBoard(t, repos, alice.ID, "Doomed", true, time.Time{})
	kept := mustBoard(t, repos, alice.ID, "Kept", true, time.Time{})

	post := &model.Post{BoardID: doomed.ID, ImageURL: "Uploads/a.png", UserID: alice.ID}
	require.NoError(t, repos.Posts.Create(ctx, post))
	onBoard := &model.Comment{BoardID: int64Ptr(doomed.ID), Content: "board", UserID: alice.ID}
	onPost := &model.Comment{PostID: int64Ptr(post.ID), Content: "post only", UserID: alice.ID}
	other := &model.Comment{BoardID: int64Ptr(kept.ID), Content: "elsewhere", UserID: alice.ID}
	for _, c := range []*model.Comment{onBoard, onPost, other} {
		require.NoError(t, repos.Comments.Create(ctx, c))
	}

	require.NoError(t, repos.Boards.Delete(ctx, doomed.ID))

	_, err := repos.Boards.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Posts.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Comments.FindByID(ctx, onBoard.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Comments.FindByID(ctx, onPost.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repos.Comments.FindByID(ctx, other.ID)
	assert.NoError(t, err)
	_, err = repos.Boards.FindByID(ctx, kept.ID)
	assert.NoError(t, err)
}

func testPostCascade(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	alice := mustUser(t, repos, "alice")
	board := mustBoard(t, repos, alice.ID, "Trip", true, time.Time{})

	post := &model.Post{BoardID: board.ID, ImageURL: "Uploads/a.png", UserID: alice.ID}
	require.NoError(t, repos.Posts.Create(ctx, post))
	onPost := &model.Comment{BoardID: int64Ptr(board.ID), PostID: int64Ptr(post.ID), Content: "nice", UserID: alice.ID}
	onBoard := &model.Comment{BoardID: int64Ptr(board.ID), Content: "board level", UserID: alice.ID}
	require.NoError(t, repos.Comments.Create(ctx, onPost))
	require.NoError(t, repos.Comments.Create(ctx, onBoard))

	require.NoError(t, repos.Posts.Delete(ctx, post.ID))

	_, err := repos.Comments.FindByID(ctx, onPost.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Comments.FindByID(ctx, onBoard.ID)
	assert.NoError(t, err)
	assert.ErrorIs(t, repos.Posts.Delete(ctx, post.ID), repository.ErrNotFound)
}

func testCounts(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	alice := mustUser(t, repos, "alice")
	bob := mustUser(t, repos, "bob")

	b1 := mustBoard(t, repos, alice.ID, "One", true, time.Time{})
	mustBoard(t, repos, alice.ID, "Two", false, time.Time{})
	mustBoard(t, repos, bob.ID, "Bob", true, time.Time{})

	require.NoError(t, repos.Posts.Create(ctx, &model.Post{BoardID: b1.ID, ImageURL: "Uploads/a.png", UserID: alice.ID}))
	require.NoError(t, repos.Comments.Create(ctx, &model.Comment{BoardID: int64Ptr(b1.ID), Content: "hi", UserID: bob.ID}))
	require.NoError(t, repos.Comments.Create(ctx, &model.Comment{BoardID: int64Ptr(b1.ID), Content: "hey", UserID: bob.ID}))

	boards, err := repos.Boards.CountByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), boards)

	posts, err := repos.Posts.CountByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), posts)

	comments, err := repos.Comments.CountByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), comments)

	comments, err = repos.Comments.CountByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), comments)
}
