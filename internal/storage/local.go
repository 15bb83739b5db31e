package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local 디스크 저장소. key는 root 기준 상대 경로
type Local struct {
	root string
}

// NewLocal Local 생성
func NewLocal(root string) *Local {
	if root == "" {
		root = "."
	}
	return &Local{root: root}
}

// Root 파일이 저장되는 루트 디렉터리
func (l *Local) Root() string {
	return l.root
}

func (l *Local) Name() string {
	return "local"
}

func (l *Local) URL(key string) string {
	return key
}

// Save O_EXCL로 생성해 같은 이름을 덮어쓰지 않음
func (l *Local) Save(ctx context.Context, key string, body io.Reader, _ int64, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dst)
		return fmt.Errorf("write %s: %w", key, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close %s: %w", key, err)
	}
	return nil
}
