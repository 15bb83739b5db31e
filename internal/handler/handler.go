package handler

import (
	"github.com/gofiber/fiber/v2"

	"muru-backend/internal/apperr"
	"muru-backend/internal/auth"
	"muru-backend/internal/policy"
)

// subject 요청한 사용자. 토큰이 없으면 익명
func subject(c *fiber.Ctx) policy.Subject {
	claims, ok := auth.GetClaimsFromContext(c)
	if !ok {
		return policy.Anonymous()
	}
	return policy.User(claims.UserID)
}

// requireUserID 인증된 사용자 ID (AuthMiddleware 뒤에서만 사용)
func requireUserID(c *fiber.Ctx) (int64, error) {
	claims, ok := auth.GetClaimsFromContext(c)
	if !ok {
		return 0, apperr.Unauthenticated("authentication required")
	}
	return claims.UserID, nil
}

// paramID 경로 파라미터를 양의 정수 ID로 변환
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}
	return int64(id), nil
}

// parseBody JSON 본문 파싱
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

// message 단순 메시지 응답
func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"message": msg})
}
