package inmem

import (
	"testing"

	"muru-backend/internal/repository/repotest"
)

func TestInMemRepositories(t *testing.T) {
	repotest.TestRepositories(t, New)
}
