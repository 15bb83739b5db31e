package handler

import (
	"github.com/gofiber/fiber/v2"

	"muru-backend/internal/service"
)

// AuthHandler 인증 핸들러
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler AuthHandler 생성
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register 회원가입
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := h.auth.Register(c.UserContext(), req); err != nil {
		return err
	}

	return message(c, "Registration successful")
}

// Login 이메일/비밀번호 로그인
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      toUser(res.User),
	})
}

// Profile 현재 사용자 정보
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	user, err := h.auth.Profile(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(toProfile(user))
}
