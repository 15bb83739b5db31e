package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck 컴포넌트 상태 확인 함수
type HealthCheck func(ctx context.Context) error

// HealthHandler 헬스체크 핸들러
type HealthHandler struct {
	database HealthCheck
	cache    HealthCheck
	timeout  time.Duration
}

// NewHealthHandler HealthHandler 생성. cache가 nil이면 not_configured로 표시
func NewHealthHandler(database, cache HealthCheck) *HealthHandler {
	return &HealthHandler{database: database, cache: cache, timeout: 2 * time.Second}
}

// ComponentCheck 컴포넌트 상태
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse 헬스체크 응답
type HealthResponse struct {
	Status    string                    `json:"status"`
	Timestamp string                    `json:"timestamp"`
	Checks    map[string]ComponentCheck `json:"checks"`
}

// Check 전체 상태 확인 (DB + Cache)
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]ComponentCheck),
	}

	// 1. Database 체크 (실패하면 unhealthy)
	db := h.run(c.UserContext(), h.database, "database ping failed")
	if db.Status != "healthy" {
		db.Status = "unhealthy"
		response.Status = "unhealthy"
	}
	response.Checks["database"] = db

	// 2. Cache 체크 (실패해도 요청은 DB로 처리되므로 degraded)
	if h.cache != nil {
		cc := h.run(c.UserContext(), h.cache, "cache unreachable")
		if cc.Status != "healthy" {
			cc.Status = "degraded"
		}
		response.Checks["cache"] = cc
	} else {
		response.Checks["cache"] = ComponentCheck{Status: "not_configured"}
	}

	statusCode := fiber.StatusOK
	if response.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(response)
}

// Liveness K8s liveness probe용 (단순 체크)
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// Readiness K8s readiness probe용 (DB 연결 체크)
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	if h.run(c.UserContext(), h.database, "").Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).SendString("NOT READY")
	}
	return c.SendString("READY")
}

func (h *HealthHandler) run(parent context.Context, check HealthCheck, failure string) ComponentCheck {
	if check == nil {
		return ComponentCheck{Status: "unhealthy", Error: "not configured"}
	}

	ctx, cancel := context.WithTimeout(parent, h.timeout)
	defer cancel()

	start := time.Now()
	if err := check(ctx); err != nil {
		return ComponentCheck{Status: "unhealthy", Error: failure}
	}
	return ComponentCheck{Status: "healthy", Latency: time.Since(start).String()}
}
