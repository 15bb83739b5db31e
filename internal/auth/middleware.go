package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"muru-backend/internal/apperr"
)

const claimsKey = "claims"

// AuthMiddleware JWT 인증 미들웨어. 실패는 apperr로 반환해 서버 ErrorHandler가 응답을 만듦
func AuthMiddleware(jwtManager *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Authorization 헤더에서 토큰 추출
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthenticated("missing authorization token")
		}

		// Bearer 토큰 파싱
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return apperr.Unauthenticated("invalid authorization header format")
		}

		// 토큰 검증
		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				return apperr.Unauthenticated("token expired").WithCode("TOKEN_EXPIRED")
			}
			return apperr.Unauthenticated("invalid token")
		}

		// 사용자 정보를 컨텍스트에 저장
		c.Locals("userID", claims.UserID)
		c.Locals(claimsKey, claims)

		return c.Next()
	}
}

// RequireRole 역할 검사 미들웨어 (AuthMiddleware 뒤에 위치)
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetClaimsFromContext(c)
		if !ok {
			return apperr.Unauthenticated("authentication required")
		}
		if !claims.HasRole(role) {
			return apperr.Forbidden("requires role %s", role)
		}
		return c.Next()
	}
}

// GetClaimsFromContext 컨텍스트에서 클레임 조회
func GetClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok && claims != nil
}
