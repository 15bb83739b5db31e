package handler

import (
	"github.com/gofiber/fiber/v2"

	"muru-backend/internal/service"
)

// BoardHandler 보드 핸들러
type BoardHandler struct {
	boards *service.BoardService
}

// NewBoardHandler BoardHandler 생성
func NewBoardHandler(boards *service.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// GetMyBoards 내 보드 목록
func (h *BoardHandler) GetMyBoards(c *fiber.Ctx) error {
	boards, err := h.boards.ListMine(c.UserContext(), subject(c))
	if err != nil {
		return err
	}
	return c.JSON(toBoards(boards))
}

// GetPublicBoards 공개 보드 목록 (인증 불필요)
func (h *BoardHandler) GetPublicBoards(c *fiber.Ctx) error {
	boards, err := h.boards.ListPublic(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(toBoards(boards))
}

// GetBoard 보드 상세
func (h *BoardHandler) GetBoard(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	board, err := h.boards.Get(c.UserContext(), subject(c), id)
	if err != nil {
		return err
	}
	return c.JSON(toBoard(board))
}

// CreateBoard 보드 생성
func (h *BoardHandler) CreateBoard(c *fiber.Ctx) error {
	var req service.BoardInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	board, err := h.boards.Create(c.UserContext(), subject(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toBoard(board))
}

// UpdateBoard 보드 수정 (소유자만)
func (h *BoardHandler) UpdateBoard(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req service.BoardInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.boards.Update(c.UserContext(), subject(c), id, req); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteBoard 보드 삭제 (게시물/댓글 포함)
func (h *BoardHandler) DeleteBoard(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.boards.Delete(c.UserContext(), subject(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
