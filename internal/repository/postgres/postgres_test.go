package postgres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"muru-backend/internal/database"
	"muru-backend/internal/logger"
	"muru-backend/internal/repository"
	"muru-backend/internal/repository/repotest"
)

// TEST_DATABASE_DSN 이 설정된 경우에만 실행. 테이블을 비우므로 전용 DB를 사용할 것
func TestPostgresRepositories(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := database.Open(dsn, true, logger.Discard())
	require.NoError(t, err)

	repotest.TestRepositories(t, func() *repository.Repositories {
		err := db.Exec("TRUNCATE TABLE comments, posts, boards, user_roles, users, roles RESTART IDENTITY CASCADE").Error
		require.NoError(t, err)
		return New(db)
	})
}
