package repository

import (
	"context"
	"errors"

	"muru-backend/internal/model"
)

var (
	// ErrNotFound 대상 행이 없음
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 유니크 제약 위반 (이메일, 사용자명, 역할 이름)
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository 사용자 및 역할 저장소
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// FindByID 역할까지 함께 로드
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByEmail 대소문자 구분 없이 조회
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByUsername 대소문자 구분 없이 조회
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	AssignRole(ctx context.Context, userID int64, role string) error
	RemoveRole(ctx context.Context, userID int64, role string) error
}

// BoardRepository 보드 저장소
type BoardRepository interface {
	Create(ctx context.Context, board *model.Board) error
	// FindByID Owner까지 함께 로드
	FindByID(ctx context.Context, id int64) (*model.Board, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Board, error)
	ListPublic(ctx context.Context) ([]model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	// Delete 댓글 → 게시물 → 보드 순서로 삭제
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// PostRepository 게시물 저장소
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// FindByID Board까지 함께 로드
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	// ListByBoard 최신순
	ListByBoard(ctx context.Context, boardID int64) ([]model.Post, error)
	// Delete 게시물의 댓글 → 게시물 순서로 삭제
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// CommentRepository 댓글 저장소
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// FindByID Board, Author까지 함께 로드
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	// ListByBoard 최신순, Author 포함
	ListByBoard(ctx context.Context, boardID int64) ([]model.Comment, error)
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// Repositories 저장소 묶음
type Repositories struct {
	Users    UserRepository
	Boards   BoardRepository
	Posts    PostRepository
	Comments CommentRepository
}
