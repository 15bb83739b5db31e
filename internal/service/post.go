package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"muru-backend/internal/apperr"
	"muru-backend/internal/model"
	"muru-backend/internal/policy"
	"muru-backend/internal/repository"
)

// PostInput 게시물 생성 요청
type PostInput struct {
	BoardID   int64   `json:"boardId" validate:"required,gt=0"`
	ImagePath string  `json:"imagePath" validate:"required"`
	Note      *string `json:"note"`
}

// PostService 게시물 생성/조회/삭제
type PostService struct {
	posts  repository.PostRepository
	boards repository.BoardRepository
	log    *logrus.Logger
	now    func() time.Time
}

// NewPostService PostService 생성
func NewPostService(posts repository.PostRepository, boards repository.BoardRepository, log *logrus.Logger) *PostService {
	return &PostService{posts: posts, boards: boards, log: log, now: time.Now}
}

// Create 보드 소유자만 게시 가능 (공개 여부와 무관)
func (s *PostService) Create(ctx context.Context, sub policy.Subject, in PostInput) (*model.Post, error) {
	in.ImagePath = strings.TrimSpace(in.ImagePath)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	board, err := s.boards.FindByID(ctx, in.BoardID)
	if err != nil {
		return nil, notFound(err, "Board")
	}
	if err := policy.Authorize(sub, policy.CreatePost, boardResource(board)); err != nil {
		return nil, err
	}

	post := &model.Post{
		BoardID:   board.ID,
		ImageURL:  in.ImagePath,
		Note:      optional(in.Note),
		UserID:    sub.UserID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperr.Internal(err, "failed to create post")
	}

	s.log.WithFields(logrus.Fields{"post_id": post.ID, "board_id": board.ID}).Info("post created")
	return post, nil
}

// ListByBoard 최신순 게시물 목록
func (s *PostService) ListByBoard(ctx context.Context, sub policy.Subject, boardID int64) ([]model.Post, error) {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, notFound(err, "Board")
	}
	if err := policy.Authorize(sub, policy.ReadPosts, boardResource(board)); err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list posts")
	}
	return posts, nil
}

// Delete 보드 소유자만 삭제 가능. 게시물 작성자 여부는 보지 않음
func (s *PostService) Delete(ctx context.Context, sub policy.Subject, id int64) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Post")
	}

	res := policy.Resource{AuthorID: post.UserID}
	if post.Board != nil {
		res.BoardOwnerID = post.Board.UserID
		res.BoardPublic = post.Board.IsPublic
	}
	if err := policy.Authorize(sub, policy.DeletePost, res); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return notFound(err, "Post")
	}
	return nil
}
