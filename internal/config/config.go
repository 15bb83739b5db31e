package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// 배포 전에 반드시 교체해야 하는 예시 시크릿
const placeholderSecret = "change-this-secret-in-production"

// Config 애플리케이션 전체 설정
type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Log      LogConfig
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port            string        `env:"PORT" env-default:":8080"`
	APIPrefix       string        `env:"API_PREFIX" env-default:"/api"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	// AuthRateLimit 로그인/회원가입 IP당 분당 요청 수. 0(기본값)이면 제한 없음
	AuthRateLimit int `env:"AUTH_RATE_LIMIT" env-default:"0"`
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowOrigins string `env:"CORS_ALLOW_ORIGINS" env-default:"http://localhost:3000"`
}

// AuthConfig 인증 설정
type AuthConfig struct {
	JWTSecret     string `env:"JWT_SECRET" env-required:"true"`
	Issuer        string `env:"JWT_ISSUER" env-required:"true"`
	Audience      string `env:"JWT_AUDIENCE" env-required:"true"`
	ExpiryMinutes int    `env:"JWT_EXPIRY_MINUTES" env-default:"60"`
}

// Expiry 토큰 유효 기간
func (a AuthConfig) Expiry() time.Duration {
	return time.Duration(a.ExpiryMinutes) * time.Minute
}

// DatabaseConfig 데이터베이스 설정
type DatabaseConfig struct {
	Host        string `env:"DB_HOST" env-default:"localhost"`
	Port        string `env:"DB_PORT" env-default:"5432"`
	User        string `env:"DB_USER" env-default:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" env-default:"muru"`
	SSLMode     string `env:"DB_SSLMODE" env-default:"disable"`
	TimeZone    string `env:"DB_TIMEZONE" env-default:"UTC"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// DSN PostgreSQL 접속 문자열
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode, d.TimeZone,
	)
}

// UploadConfig 업로드 검증 설정
type UploadConfig struct {
	MaxFileSizeMB     int      `env:"UPLOAD_MAX_FILE_SIZE_MB" env-default:"10"`
	AllowedExtensions []string `env:"UPLOAD_ALLOWED_EXTENSIONS" env-default:".jpg,.jpeg,.png,.gif" env-separator:","`
	UploadPath        string   `env:"UPLOAD_PATH" env-default:"Uploads"`
	ContentRoot       string   `env:"CONTENT_ROOT" env-default:"."`
}

// MaxBytes 허용 최대 크기 (바이트)
func (u UploadConfig) MaxBytes() int64 {
	return int64(u.MaxFileSizeMB) * 1024 * 1024
}

// StorageConfig 업로드 저장소 선택
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"local"` // local, s3, minio
	S3     S3Config
	MinIO  MinIOConfig
}

// S3Config AWS S3 설정
type S3Config struct {
	Region          string `env:"AWS_REGION" env-default:"eu-central-1"`
	BucketName      string `env:"AWS_S3_BUCKET"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	PublicBaseURL   string `env:"AWS_S3_PUBLIC_BASE_URL"`
}

// MinIOConfig MinIO 설정
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" env-default:"muru"`
	UseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

// RedisConfig Redis 설정 (공개 보드 목록 캐시)
type RedisConfig struct {
	Enabled        bool          `env:"CACHE_ENABLED" env-default:"false"`
	Addr           string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" env-default:"0"`
	PublicBoardTTL time.Duration `env:"CACHE_PUBLIC_BOARDS_TTL" env-default:"1m"`
}

// LogConfig 로그 설정
type LogConfig struct {
	Env   string `env:"APP_ENV" env-default:"dev"`
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// Load 환경 변수에서 설정 로드
func Load() (*Config, error) {
	// .env 파일 로드 (없어도 에러 무시)
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase 데이터베이스 설정만 로드 (관리 도구용)
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	cfg := &DatabaseConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

// Validate 필수 설정 검증
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == placeholderSecret {
		return errors.New("JWT_SECRET must be changed from the placeholder value")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if c.Auth.ExpiryMinutes <= 0 {
		return errors.New("JWT_EXPIRY_MINUTES must be positive")
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return errors.New("UPLOAD_MAX_FILE_SIZE_MB must be positive")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return errors.New("UPLOAD_ALLOWED_EXTENSIONS must not be empty")
	}

	switch strings.ToLower(c.Storage.Driver) {
	case "local":
	case "s3":
		if c.Storage.S3.BucketName == "" {
			return errors.New("AWS_S3_BUCKET is required for the s3 storage driver")
		}
	case "minio":
		if c.Storage.MinIO.AccessKey == "" || c.Storage.MinIO.SecretKey == "" {
			return errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}
