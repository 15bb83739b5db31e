package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"muru-backend/internal/apperr"
	"muru-backend/internal/auth"
	"muru-backend/internal/cache"
	"muru-backend/internal/config"
	"muru-backend/internal/handler"
	"muru-backend/internal/model"
	"muru-backend/internal/repository"
	"muru-backend/internal/service"
	"muru-backend/internal/storage"
)

// Deps 서버가 사용하는 외부 의존성
type Deps struct {
	Repos    *repository.Repositories
	Uploader *storage.Uploader
	JWT      *auth.JWTManager
	Log      *logrus.Logger
	// Cache nil이면 캐시 없이 동작
	Cache cache.BoardCache
	// DBCheck readiness 확인용 DB ping
	DBCheck handler.HealthCheck
}

// Server Fiber 서버 래퍼
type Server struct {
	app            *fiber.App
	cfg            *config.Config
	log            *logrus.Logger
	uploader       *storage.Uploader
	jwtManager     *auth.JWTManager
	authHandler    *handler.AuthHandler
	boardHandler   *handler.BoardHandler
	postHandler    *handler.PostHandler
	commentHandler *handler.CommentHandler
	storageHandler *handler.StorageHandler
	userHandler    *handler.UserHandler
	healthHandler  *handler.HealthHandler
}

// New 새 서버 인스턴스 생성
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:        cfg,
		log:        deps.Log,
		uploader:   deps.Uploader,
		jwtManager: deps.JWT,
	}

	s.app = fiber.New(fiber.Config{
		AppName:       "Muru API",
		ServerHeader:  "Fiber",
		CaseSensitive: false,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		// 업로드 최대 크기 + multipart 오버헤드
		BodyLimit:             int(cfg.Upload.MaxBytes()) + 1024*1024,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	var healthCache handler.HealthCheck
	if deps.Cache != nil {
		healthCache = deps.Cache.Health
	}

	s.authHandler = handler.NewAuthHandler(service.NewAuthService(deps.Repos.Users, deps.JWT, deps.Log))
	s.boardHandler = handler.NewBoardHandler(service.NewBoardService(deps.Repos.Boards, deps.Cache, deps.Log))
	s.postHandler = handler.NewPostHandler(service.NewPostService(deps.Repos.Posts, deps.Repos.Boards, deps.Log))
	s.commentHandler = handler.NewCommentHandler(service.NewCommentService(deps.Repos, deps.Log))
	s.storageHandler = handler.NewStorageHandler(deps.Uploader, deps.Log)
	s.userHandler = handler.NewUserHandler(service.NewUserService(deps.Repos, deps.Uploader, deps.Cache, deps.Log))
	s.healthHandler = handler.NewHealthHandler(deps.DBCheck, healthCache)

	return s
}

// App 내부 fiber.App (테스트용)
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware 미들웨어 설정
func (s *Server) SetupMiddleware() {
	// 패닉 복구 → errorHandler
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: s.cfg.Log.Env != "production",
	}))

	s.app.Use(requestid.New())

	// 로깅
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${locals:requestid} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     s.log.Out,
	}))

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// 정적 파일 제공 (local 저장소의 업로드 파일)
	if local, ok := s.uploader.Provider().(*storage.Local); ok {
		prefix := "/" + strings.Trim(filepath.ToSlash(s.cfg.Upload.UploadPath), "/")
		s.app.Static(prefix, filepath.Join(local.Root(), s.cfg.Upload.UploadPath), fiber.Static{
			Browse: false,
		})
	}
}

// SetupRoutes 라우트 설정
func (s *Server) SetupRoutes() {
	// 헬스체크 엔드포인트
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)

	requireAuth := auth.AuthMiddleware(s.jwtManager)
	api := s.app.Group(s.cfg.Server.APIPrefix)

	// Auth 라우트 그룹
	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.authLimiter(), s.authHandler.Register)
	authGroup.Post("/login", s.authLimiter(), s.authHandler.Login)
	authGroup.Get("/profile", requireAuth, s.authHandler.Profile)

	// Board 라우트 (/public은 /:id보다 먼저)
	boards := api.Group("/boards")
	boards.Get("/public", s.boardHandler.GetPublicBoards)
	boards.Get("/", requireAuth, s.boardHandler.GetMyBoards)
	boards.Post("/", requireAuth, s.boardHandler.CreateBoard)
	boards.Get("/:id", requireAuth, s.boardHandler.GetBoard)
	boards.Put("/:id", requireAuth, s.boardHandler.UpdateBoard)
	boards.Delete("/:id", requireAuth, s.boardHandler.DeleteBoard)

	// Post 라우트
	posts := api.Group("/posts", requireAuth)
	posts.Post("/", s.postHandler.CreatePost)
	posts.Get("/board/:boardId", s.postHandler.GetBoardPosts)
	posts.Delete("/:id", s.postHandler.DeletePost)

	// Comment 라우트
	comments := api.Group("/comments", requireAuth)
	comments.Post("/", s.commentHandler.CreateComment)
	comments.Get("/board/:boardId", s.commentHandler.GetBoardComments)
	comments.Delete("/:id", s.commentHandler.DeleteComment)

	// 파일 업로드
	api.Post("/file/upload", s.storageHandler.UploadFile)

	// User 라우트 (/:id는 마지막)
	user := api.Group("/user")
	user.Get("/me", requireAuth, s.userHandler.GetMe)
	user.Get("/admin", requireAuth, auth.RequireRole(model.RoleAdmin.String()), s.userHandler.AdminOnly)
	user.Post("/profile-image", requireAuth, s.userHandler.UploadProfileImage)
	user.Put("/profile-image", requireAuth, s.userHandler.SetProfileImage)
	user.Put("/update-account", requireAuth, s.userHandler.UpdateAccount)
	user.Put("/update-personal", requireAuth, s.userHandler.UpdatePersonal)
	user.Put("/change-password", requireAuth, s.userHandler.ChangePassword)
	user.Get("/:id", s.userHandler.GetUser)
}

// authLimiter 인증 엔드포인트용 Rate Limiter (Brute Force 방지)
func (s *Server) authLimiter() fiber.Handler {
	if s.cfg.Server.AuthRateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        s.cfg.Server.AuthRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() // IP 기반 제한
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
				"code":  "TOO_MANY_REQUESTS",
			})
		},
	})
}

// errorHandler 핸들러 에러를 {"error","code"} 응답으로 변환
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		return c.Status(appErr.Status()).JSON(fiber.Map{
			"error": appErr.Message,
			"code":  appErr.Code(),
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  statusCode(fiberErr.Code),
		})
	}

	// 내부 에러는 원인을 로그에만 남김
	s.log.WithFields(logrus.Fields{
		"request_id": c.Locals("requestid"),
		"method":     c.Method(),
		"path":       c.Path(),
	}).WithError(err).Error("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
		"code":  apperr.KindInternal.String(),
	})
}

// statusCode fiber 에러 상태를 에러 코드로 변환
func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperr.KindValidation.String()
	case fiber.StatusUnauthorized:
		return apperr.KindUnauthenticated.String()
	case fiber.StatusForbidden:
		return apperr.KindForbidden.String()
	case fiber.StatusNotFound:
		return apperr.KindNotFound.String()
	case fiber.StatusRequestEntityTooLarge:
		return apperr.KindTooLarge.String()
	case fiber.StatusUnsupportedMediaType:
		return apperr.KindUnsupportedType.String()
	default:
		return strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
	}
}

// Start 서버 시작 (Graceful Shutdown 지원)
func (s *Server) Start() error {
	// Graceful Shutdown 설정
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		s.log.Info("🛑 Shutting down server...")
		if err := s.Shutdown(); err != nil {
			s.log.WithError(err).Error("server shutdown error")
		}
	}()

	s.log.Infof("🚀 Muru API starting on %s (storage: %s)", s.cfg.Server.Port, s.uploader.Provider().Name())

	if err := s.app.Listen(s.cfg.Server.Port); err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Port, err)
	}
	return nil
}

// Shutdown 서버 종료
func (s *Server) Shutdown() error {
	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}
