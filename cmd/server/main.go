package main

import (
	"context"
	"log"
	"time"

	"muru-backend/internal/auth"
	"muru-backend/internal/cache"
	"muru-backend/internal/config"
	"muru-backend/internal/database"
	"muru-backend/internal/logger"
	"muru-backend/internal/repository/postgres"
	"muru-backend/internal/server"
	"muru-backend/internal/storage"
)

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	logr := logger.New(cfg.Log.Env, cfg.Log.Level)

	// 데이터베이스 연결
	db, err := database.ConnectDB(cfg.Database, logr)
	if err != nil {
		logr.WithError(err).Fatal("❌ Database connection failed")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ping 테스트
	if err := database.Ping(ctx, db); err != nil {
		logr.WithError(err).Fatal("❌ Database ping failed")
	}
	logr.Info("✅ Database connected successfully")

	// 업로드 저장소
	provider, err := storage.NewProvider(ctx, cfg)
	if err != nil {
		logr.WithError(err).Fatal("❌ Storage initialization failed")
	}
	uploader := storage.NewUploader(provider, cfg.Upload)

	// 공개 보드 캐시 (선택)
	var boardCache cache.BoardCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logr.WithError(err).Warn("⚠️ Redis unavailable, running without cache")
		} else {
			defer redisClient.Close()
			boardCache = redisClient
			logr.Infof("✅ Redis connected (%s)", cfg.Redis.Addr)
		}
	}

	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.Expiry())
	if err != nil {
		logr.WithError(err).Fatal("❌ JWT manager initialization failed")
	}

	// 서버 생성 및 설정
	srv := server.New(cfg, server.Deps{
		Repos:    postgres.New(db),
		Uploader: uploader,
		JWT:      jwtManager,
		Log:      logr,
		Cache:    boardCache,
		DBCheck: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})
	srv.SetupMiddleware()
	srv.SetupRoutes()

	// 서버 시작
	if err := srv.Start(); err != nil {
		logr.WithError(err).Fatal("Server failed to start")
	}
}
