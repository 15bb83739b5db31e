package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"muru-backend/internal/apperr"
	"muru-backend/internal/service"
)

// UserHandler 유저 핸들러
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler UserHandler 생성
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// SetAvatarRequest 프로필 이미지 지정. path 또는 imageData 중 하나만
type SetAvatarRequest struct {
	Path      string `json:"path"`
	ImageData string `json:"imageData"`
}

// GetMe 내 정보 + 활동 수
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	me, err := h.users.Me(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(toMe(me))
}

// AdminOnly Admin 역할 확인용
func (h *UserHandler) AdminOnly(c *fiber.Ctx) error {
	return message(c, "You have access to admin resources")
}

// GetUser 다른 사용자의 공개 프로필
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.users.PublicProfile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(toPublicUser(user))
}

// UploadProfileImage multipart "file"을 프로필 이미지로 저장
func (h *UserHandler) UploadProfileImage(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	f, closeFn, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer closeFn()

	ref, err := h.users.SetAvatarFromUpload(c.UserContext(), userID, f)
	if err != nil {
		return err
	}
	return c.JSON(AvatarResponse{Message: "Profile image uploaded successfully", ProfileImage: ref})
}

// SetProfileImage 업로드된 경로 또는 base64 데이터로 프로필 이미지 지정
func (h *UserHandler) SetProfileImage(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req SetAvatarRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	path := strings.TrimSpace(req.Path)
	data := strings.TrimSpace(req.ImageData)

	var ref string
	switch {
	case path != "" && data != "":
		return apperr.Validation("provide either path or imageData, not both")
	case path != "":
		ref, err = h.users.SetAvatarFromPath(c.UserContext(), userID, path)
	case data != "":
		ref, err = h.users.SetAvatarFromData(c.UserContext(), userID, data)
	default:
		return apperr.Validation("path or imageData is required")
	}
	if err != nil {
		return err
	}

	return c.JSON(AvatarURLResponse{Message: "Profile image updated successfully", ProfileImageURL: ref})
}

// UpdateAccount 사용자명/이메일 변경
func (h *UserHandler) UpdateAccount(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req service.AccountInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateAccount(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(toProfile(user))
}

// UpdatePersonal 이름 변경
func (h *UserHandler) UpdatePersonal(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req service.PersonalInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdatePersonal(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(toProfile(user))
}

// ChangePassword 비밀번호 변경
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req service.PasswordInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.users.ChangePassword(c.UserContext(), userID, req); err != nil {
		return err
	}
	return message(c, "Password changed successfully")
}
