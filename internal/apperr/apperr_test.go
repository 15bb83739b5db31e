package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusAndCode(t *testing.T) {
	tts := []struct {
		err    *Error
		status int
		code   string
	}{
		{err: Unauthenticated("no token"), status: 401, code: "UNAUTHENTICATED"},
		{err: Forbidden("not yours"), status: 403, code: "FORBIDDEN"},
		{err: NotFound("board not found"), status: 404, code: "NOT_FOUND"},
		{err: Validation("title is required"), status: 400, code: "VALIDATION"},
		{err: TooLarge("too big"), status: 413, code: "FILE_TOO_LARGE"},
		{err: UnsupportedType("bad ext"), status: 415, code: "UNSUPPORTED_FILE_TYPE"},
		{err: Internal(errors.New("db down"), "failed"), status: 500, code: "INTERNAL"},
		{err: Unauthenticated("token expired").WithCode("TOKEN_EXPIRED"), status: 401, code: "TOKEN_EXPIRED"},
	}

	for _, tt := range tts {
		assert.Equal(t, tt.status, tt.err.Status(), tt.err.Message)
		assert.Equal(t, tt.code, tt.err.Code(), tt.err.Message)
	}
}

func TestIsMatchesKindSentinels(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Forbidden("you can only delete posts from boards you own"))

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnauthenticated))
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "failed to create board")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to create board", err.Message)
	assert.Contains(t, err.Error(), "connection refused")
}
