package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"muru-backend/internal/auth"
	"muru-backend/internal/config"
	"muru-backend/internal/logger"
	"muru-backend/internal/model"
	"muru-backend/internal/policy"
	"muru-backend/internal/repository"
	"muru-backend/internal/repository/inmem"
	"muru-backend/internal/storage"
)

type testEnv struct {
	repos    *repository.Repositories
	jwt      *auth.JWTManager
	cache    *fakeCache
	auth     *AuthService
	boards   *BoardService
	posts    *PostService
	comments *CommentService
	users    *UserService
	root     string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard()
	repos := inmem.New()

	jwt, err := auth.NewJWTManager("0123456789abcdef0123456789abcdef", "muru-api", "muru-web", time.Hour)
	require.NoError(t, err)

	root := t.TempDir()
	uploader := storage.NewUploader(storage.NewLocal(root), config.UploadConfig{
		MaxFileSizeMB:     10,
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif"},
		UploadPath:        "Uploads",
		ContentRoot:       root,
	})

	c := &fakeCache{}
	return &testEnv{
		repos:    repos,
		jwt:      jwt,
		cache:    c,
		auth:     NewAuthService(repos.Users, jwt, log),
		boards:   NewBoardService(repos.Boards, c, log),
		posts:    NewPostService(repos.Posts, repos.Boards, log),
		comments: NewCommentService(repos, log),
		users:    NewUserService(repos, uploader, c, log),
		root:     root,
	}
}

const testPassword = "Secret#123"

func (e *testEnv) register(t *testing.T, username string) policy.Subject {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Email:    username + "@muru.test",
		Username: username,
		Password: testPassword,
	})
	require.NoError(t, err)
	return policy.User(user.ID)
}

func (e *testEnv) board(t *testing.T, owner policy.Subject, title string, public bool) *model.Board {
	t.Helper()
	b, err := e.boards.Create(context.Background(), owner, BoardInput{Title: title, IsPublic: &public})
	require.NoError(t, err)
	return b
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

// fakeCache 메모리 캐시. fail이 true면 모든 호출이 실패
type fakeCache struct {
	boards      []model.Board
	hit         bool
	gen         int64
	invalidated int
	skipped     int
	fail        bool
}

var errCacheDown = errors.New("cache down")

func (c *fakeCache) GetPublicBoards(context.Context) ([]model.Board, int64, bool, error) {
	if c.fail {
		return nil, 0, false, errCacheDown
	}
	return c.boards, c.gen, c.hit, nil
}

func (c *fakeCache) SetPublicBoards(_ context.Context, gen int64, boards []model.Board) error {
	if c.fail {
		return errCacheDown
	}
	if gen != c.gen {
		c.skipped++
		return nil
	}
	c.boards, c.hit = boards, true
	return nil
}

func (c *fakeCache) InvalidatePublicBoards(context.Context) error {
	c.invalidated++
	if c.fail {
		return errCacheDown
	}
	c.gen++
	c.boards, c.hit = nil, false
	return nil
}

func (c *fakeCache) Health(context.Context) error {
	if c.fail {
		return errCacheDown
	}
	return nil
}

func (c *fakeCache) Close() error { return nil }
