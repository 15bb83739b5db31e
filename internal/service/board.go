package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"muru-backend/internal/apperr"
	"muru-backend/internal/cache"
	"muru-backend/internal/model"
	"muru-backend/internal/policy"
	"muru-backend/internal/repository"
)

// BoardInput 보드 생성/수정 요청
type BoardInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"max=500"`
	IsPublic    *bool   `json:"isPublic"`
	CoverImage  *string `json:"coverImage"`
}

// BoardService 보드 CRUD
type BoardService struct {
	boards repository.BoardRepository
	cache  cache.BoardCache
	log    *logrus.Logger
	now    func() time.Time
}

// NewBoardService BoardService 생성. cache가 nil이면 캐시 없이 동작
func NewBoardService(boards repository.BoardRepository, c cache.BoardCache, log *logrus.Logger) *BoardService {
	if c == nil {
		c = cache.Nop{}
	}
	return &BoardService{boards: boards, cache: c, log: log, now: time.Now}
}

// ListMine 호출자 소유 보드
func (s *BoardService) ListMine(ctx context.Context, sub policy.Subject) ([]model.Board, error) {
	if err := policy.Authorize(sub, policy.ListOwnBoards, policy.Resource{}); err != nil {
		return nil, err
	}

	boards, err := s.boards.ListByOwner(ctx, sub.UserID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list boards")
	}
	return boards, nil
}

// ListPublic 공개 보드 전체 (캐시 우선). 캐시 장애는 로그만 남김
func (s *BoardService) ListPublic(ctx context.Context) ([]model.Board, error) {
	cached, gen, ok, cacheErr := s.cache.GetPublicBoards(ctx)
	if cacheErr != nil {
		s.log.WithError(cacheErr).Warn("public board cache read failed")
	} else if ok {
		return cached, nil
	}

	boards, err := s.boards.ListPublic(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list public boards")
	}

	// 읽기에 실패했으면 세대를 모르므로 저장하지 않음
	if cacheErr == nil {
		if err := s.cache.SetPublicBoards(ctx, gen, boards); err != nil {
			s.log.WithError(err).Warn("public board cache write failed")
		}
	}
	return boards, nil
}

// Get 보드 단건 조회. 비공개 보드는 소유자만
func (s *BoardService) Get(ctx context.Context, sub policy.Subject, id int64) (*model.Board, error) {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Board")
	}

	if err := policy.Authorize(sub, policy.ReadBoard, boardResource(board)); err != nil {
		return nil, err
	}
	return board, nil
}

// Create 보드 생성. isPublic을 생략하면 공개
func (s *BoardService) Create(ctx context.Context, sub policy.Subject, in BoardInput) (*model.Board, error) {
	if err := policy.Authorize(sub, policy.CreateBoard, policy.Resource{}); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	board := &model.Board{
		Title:       in.Title,
		Description: in.Description,
		IsPublic:    in.IsPublic == nil || *in.IsPublic,
		CoverImage:  optional(in.CoverImage),
		UserID:      sub.UserID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, apperr.Internal(err, "failed to create board")
	}
	s.invalidate(ctx)

	s.log.WithFields(logrus.Fields{"board_id": board.ID, "user_id": sub.UserID}).Info("board created")

	// Owner 포함해서 다시 로드
	created, err := s.boards.FindByID(ctx, board.ID)
	if err != nil {
		return nil, notFound(err, "Board")
	}
	return created, nil
}

// Update 전체 교체. isPublic을 생략하면 비공개
func (s *BoardService) Update(ctx context.Context, sub policy.Subject, id int64, in BoardInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateInput(in); err != nil {
		return err
	}

	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Board")
	}
	if err := policy.Authorize(sub, policy.UpdateBoard, boardResource(board)); err != nil {
		return err
	}

	now := s.now().UTC()
	board.Title = in.Title
	board.Description = in.Description
	board.IsPublic = in.IsPublic != nil && *in.IsPublic
	board.CoverImage = optional(in.CoverImage)
	board.UpdatedAt = &now

	if err := s.boards.Update(ctx, board); err != nil {
		return notFound(err, "Board")
	}
	s.invalidate(ctx)
	return nil
}

// Delete 보드와 그 게시물/댓글 삭제
func (s *BoardService) Delete(ctx context.Context, sub policy.Subject, id int64) error {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Board")
	}
	if err := policy.Authorize(sub, policy.DeleteBoard, boardResource(board)); err != nil {
		return err
	}

	if err := s.boards.Delete(ctx, id); err != nil {
		return notFound(err, "Board")
	}
	s.invalidate(ctx)

	s.log.WithFields(logrus.Fields{"board_id": id, "user_id": sub.UserID}).Info("board deleted")
	return nil
}

func (s *BoardService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePublicBoards(ctx); err != nil {
		s.log.WithError(err).Warn("public board cache invalidation failed")
	}
}

func boardResource(b *model.Board) policy.Resource {
	return policy.Resource{BoardOwnerID: b.UserID, BoardPublic: b.IsPublic}
}
