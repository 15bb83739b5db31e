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

// CommentInput 댓글 작성 요청
type CommentInput struct {
	BoardID int64  `json:"boardId" validate:"required,gt=0"`
	PostID  *int64 `json:"postId" validate:"omitempty,gt=0"`
	Content string `json:"content" validate:"required,max=2000"`
}

// CommentService 댓글 작성/조회/삭제
type CommentService struct {
	comments repository.CommentRepository
	boards   repository.BoardRepository
	posts    repository.PostRepository
	log      *logrus.Logger
	now      func() time.Time
}

// NewCommentService CommentService 생성
func NewCommentService(repos *repository.Repositories, log *logrus.Logger) *CommentService {
	return &CommentService{
		comments: repos.Comments,
		boards:   repos.Boards,
		posts:    repos.Posts,
		log:      log,
		now:      time.Now,
	}
}

// Create 볼 수 있는 보드에 댓글 작성. postId는 같은 보드의 게시물이어야 함
func (s *CommentService) Create(ctx context.Context, sub policy.Subject, in CommentInput) (*model.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	board, err := s.boards.FindByID(ctx, in.BoardID)
	if err != nil {
		return nil, notFound(err, "Board")
	}
	if err := policy.Authorize(sub, policy.CreateComment, boardResource(board)); err != nil {
		return nil, err
	}

	if in.PostID != nil {
		post, err := s.posts.FindByID(ctx, *in.PostID)
		if err != nil {
			return nil, notFound(err, "Post")
		}
		if post.BoardID != board.ID {
			return nil, apperr.Validation("post %d does not belong to board %d", post.ID, board.ID)
		}
	}

	boardID := board.ID
	comment := &model.Comment{
		BoardID:   &boardID,
		PostID:    in.PostID,
		Content:   in.Content,
		UserID:    sub.UserID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperr.Internal(err, "failed to create comment")
	}

	s.log.WithFields(logrus.Fields{"comment_id": comment.ID, "board_id": board.ID}).Info("comment created")

	// Author 포함해서 다시 로드
	created, err := s.comments.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, notFound(err, "Comment")
	}
	return created, nil
}

// ListByBoard 최신순 댓글 목록 (작성자 포함)
func (s *CommentService) ListByBoard(ctx context.Context, sub policy.Subject, boardID int64) ([]model.Comment, error) {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, notFound(err, "Board")
	}
	if err := policy.Authorize(sub, policy.ReadComments, boardResource(board)); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list comments")
	}
	return comments, nil
}

// Delete 작성자 또는 보드 소유자만 삭제 가능
func (s *CommentService) Delete(ctx context.Context, sub policy.Subject, id int64) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Comment")
	}

	// 권한은 댓글의 보드로만 판단. 보드가 없으면 작성자만 삭제 가능
	res := policy.Resource{AuthorID: comment.UserID}
	if board := comment.Board; board != nil {
		res.BoardOwnerID = board.UserID
		res.BoardPublic = board.IsPublic
	}

	if err := policy.Authorize(sub, policy.DeleteComment, res); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return notFound(err, "Comment")
	}
	return nil
}
