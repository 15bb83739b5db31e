package handler

import (
	"github.com/gofiber/fiber/v2"

	"muru-backend/internal/service"
)

// CommentHandler 댓글 핸들러
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler CommentHandler 생성
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// CreateComment 댓글 작성
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	var req service.CommentInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.Create(c.UserContext(), subject(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toComment(comment))
}

// GetBoardComments 보드의 댓글 목록
func (h *CommentHandler) GetBoardComments(c *fiber.Ctx) error {
	boardID, err := paramID(c, "boardId")
	if err != nil {
		return err
	}

	comments, err := h.comments.ListByBoard(c.UserContext(), subject(c), boardID)
	if err != nil {
		return err
	}
	return c.JSON(toComments(comments))
}

// DeleteComment 댓글 삭제 (작성자 또는 보드 소유자)
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.comments.Delete(c.UserContext(), subject(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
