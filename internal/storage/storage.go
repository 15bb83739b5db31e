package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"muru-backend/internal/apperr"
	"muru-backend/internal/config"
	"muru-backend/internal/model"
)

// Provider 업로드 파일을 실제로 저장하는 백엔드
type Provider interface {
	// Save key 위치에 새 객체 생성. 이미 존재하면 에러
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// URL 클라이언트가 사용할 참조 경로
	URL(key string) string
	Name() string
}

// File 업로드 요청 한 건
type File struct {
	OriginalName string
	ContentType  string
	// Size 클라이언트가 알려준 크기. 실제 읽은 바이트 수로 다시 검사함
	Size int64
	Body io.Reader
}

// Upload 저장 결과
type Upload struct {
	Path             string
	FileName         string
	OriginalFileName string
	Size             int64
	ContentType      string
}

// Uploader 확장자/크기 검증 후 Provider에 저장
type Uploader struct {
	provider  Provider
	prefix    string
	maxBytes  int64
	allowed   map[string]struct{}
	allowList string
}

// NewUploader Uploader 생성
func NewUploader(provider Provider, cfg config.UploadConfig) *Uploader {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	names := make([]string, 0, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
		names = append(names, ext)
	}

	return &Uploader{
		provider:  provider,
		prefix:    strings.Trim(filepath.ToSlash(cfg.UploadPath), "/"),
		maxBytes:  cfg.MaxBytes(),
		allowed:   allowed,
		allowList: strings.Join(names, ", "),
	}
}

// Provider 사용 중인 저장소
func (u *Uploader) Provider() Provider {
	return u.provider
}

// Store 일반 파일 저장: <prefix>/<uuid><ext>
func (u *Uploader) Store(ctx context.Context, f File) (*Upload, error) {
	return u.store(ctx, f, "", "")
}

// StoreProfileImage 프로필 이미지 저장: <prefix>/ProfileImages/<userId>_<uuid><ext>
func (u *Uploader) StoreProfileImage(ctx context.Context, userID int64, f File) (*Upload, error) {
	return u.store(ctx, f, model.ProfileImageDir, fmt.Sprintf("%d_", userID))
}

// IsReference 이 저장소가 발급한 참조 경로인지 확인
func (u *Uploader) IsReference(ref string) bool {
	if ref == "" || strings.Contains(ref, "..") {
		return false
	}

	base := u.provider.URL(u.prefix)
	return strings.HasPrefix(ref, base+"/") || strings.HasPrefix(ref, u.prefix+"/")
}

func (u *Uploader) store(ctx context.Context, f File, subdir, namePrefix string) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(f.OriginalName))
	if _, ok := u.allowed[ext]; !ok {
		return nil, apperr.UnsupportedType("file type %q is not allowed (allowed: %s)", ext, u.allowList)
	}

	if f.Size > u.maxBytes {
		return nil, u.tooLarge()
	}
	if f.Body == nil {
		return nil, apperr.Validation("file is empty")
	}

	// 선언된 크기를 믿지 않고 최대 크기+1 까지만 읽음
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(f.Body, u.maxBytes+1))
	if err != nil {
		return nil, apperr.Internal(err, "failed to read upload")
	}
	if n > u.maxBytes {
		return nil, u.tooLarge()
	}
	if n == 0 {
		return nil, apperr.Validation("file is empty")
	}

	fileName := namePrefix + uuid.NewString() + ext
	key := path.Join(u.prefix, subdir, fileName)

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := u.provider.Save(ctx, key, bytes.NewReader(buf.Bytes()), n, contentType); err != nil {
		return nil, apperr.Internal(err, "failed to store upload")
	}

	return &Upload{
		Path:             u.provider.URL(key),
		FileName:         fileName,
		OriginalFileName: f.OriginalName,
		Size:             n,
		ContentType:      contentType,
	}, nil
}

func (u *Uploader) tooLarge() error {
	return apperr.TooLarge("file exceeds the maximum size of %d MB", u.maxBytes/(1024*1024))
}

// NewProvider 설정에 맞는 Provider 생성
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "local":
		return NewLocal(cfg.Upload.ContentRoot), nil
	case "s3":
		return NewS3(ctx, cfg.Storage.S3)
	case "minio":
		return NewMinIO(ctx, cfg.Storage.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
