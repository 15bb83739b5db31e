package handler

import (
	"github.com/gofiber/fiber/v2"

	"muru-backend/internal/service"
)

// PostHandler 게시물 핸들러
type PostHandler struct {
	posts *service.PostService
}

// NewPostHandler PostHandler 생성
func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// CreatePost 게시물 작성 (보드 소유자만)
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var req service.PostInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.UserContext(), subject(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toPost(post))
}

// GetBoardPosts 보드의 게시물 목록
func (h *PostHandler) GetBoardPosts(c *fiber.Ctx) error {
	boardID, err := paramID(c, "boardId")
	if err != nil {
		return err
	}

	posts, err := h.posts.ListByBoard(c.UserContext(), subject(c), boardID)
	if err != nil {
		return err
	}
	return c.JSON(toPosts(posts))
}

// DeletePost 게시물 삭제
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.posts.Delete(c.UserContext(), subject(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
