package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"muru-backend/internal/apperr"
	"muru-backend/internal/auth"
	"muru-backend/internal/cache"
	"muru-backend/internal/model"
	"muru-backend/internal/repository"
	"muru-backend/internal/storage"
)

// AccountInput 사용자명/이메일 변경. 빈 값은 기존 값 유지
type AccountInput struct {
	Username string `json:"username" validate:"max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// PersonalInput 이름 변경. 빈 값은 기존 값 유지
type PersonalInput struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// PasswordInput 비밀번호 변경
type PasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=100"`
}

// MeResult 내 정보 + 활동 수
type MeResult struct {
	User          *model.User
	BoardsCount   int64
	PostsCount    int64
	CommentsCount int64
}

// UserService 프로필/계정 관리
type UserService struct {
	repos    *repository.Repositories
	uploader *storage.Uploader
	cache    cache.BoardCache
	log      *logrus.Logger
}

// NewUserService UserService 생성. 공개 보드 목록에 작성자 이름이 들어가므로 같은 캐시를 받음
func NewUserService(repos *repository.Repositories, uploader *storage.Uploader, c cache.BoardCache, log *logrus.Logger) *UserService {
	if c == nil {
		c = cache.Nop{}
	}
	return &UserService{repos: repos, uploader: uploader, cache: c, log: log}
}

// Me 내 정보와 보드/게시물/댓글 수
func (s *UserService) Me(ctx context.Context, userID int64) (*MeResult, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &MeResult{User: user}
	if res.BoardsCount, err = s.repos.Boards.CountByOwner(ctx, userID); err != nil {
		return nil, apperr.Internal(err, "failed to count boards")
	}
	if res.PostsCount, err = s.repos.Posts.CountByOwner(ctx, userID); err != nil {
		return nil, apperr.Internal(err, "failed to count posts")
	}
	if res.CommentsCount, err = s.repos.Comments.CountByOwner(ctx, userID); err != nil {
		return nil, apperr.Internal(err, "failed to count comments")
	}
	return res, nil
}

// PublicProfile 다른 사용자 조회 (응답에는 공개 필드만 사용할 것)
func (s *UserService) PublicProfile(ctx context.Context, id int64) (*model.User, error) {
	return s.load(ctx, id)
}

// SetAvatarFromUpload 업로드한 이미지를 저장하고 프로필 이미지로 지정
func (s *UserService) SetAvatarFromUpload(ctx context.Context, userID int64, f storage.File) (string, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}

	up, err := s.uploader.StoreProfileImage(ctx, userID, f)
	if err != nil {
		return "", err
	}

	return up.Path, s.setAvatar(ctx, user, up.Path)
}

// SetAvatarFromData base64/data URL 이미지를 저장하고 프로필 이미지로 지정
func (s *UserService) SetAvatarFromData(ctx context.Context, userID int64, data string) (string, error) {
	f, err := storage.DecodeImageData(data)
	if err != nil {
		return "", err
	}
	return s.SetAvatarFromUpload(ctx, userID, f)
}

// SetAvatarFromPath 이미 업로드된 파일 경로를 프로필 이미지로 지정
func (s *UserService) SetAvatarFromPath(ctx context.Context, userID int64, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", apperr.Validation("path is required")
	}
	if !s.uploader.IsReference(path) {
		return "", apperr.Validation("path must reference an uploaded file")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}
	return path, s.setAvatar(ctx, user, path)
}

// UpdateAccount 사용자명/이메일 변경 (다른 사용자와 중복 불가)
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, in AccountInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Username != "" && !auth.ValidateUsername(in.Username) {
		return nil, apperr.Validation("Username '%s' is invalid, can only contain letters or digits.", in.Username)
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var email, username string
	if in.Email != "" && in.Email != user.Email {
		email = in.Email
	}
	if in.Username != "" && in.Username != user.Username {
		username = in.Username
	}
	if err := checkAvailable(ctx, s.repos.Users, userID, email, username); err != nil {
		return nil, err
	}

	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	// 공개 보드 목록의 createdBy
	if username != "" {
		if err := s.cache.InvalidatePublicBoards(ctx); err != nil {
			s.log.WithError(err).Warn("public board cache invalidation failed")
		}
	}
	return user, nil
}

// UpdatePersonal 이름 변경
func (s *UserService) UpdatePersonal(ctx context.Context, userID int64, in PersonalInput) (*model.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := optional(&in.FirstName); v != nil {
		user.FirstName = v
	}
	if v := optional(&in.LastName); v != nil {
		user.LastName = v
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 현재 비밀번호 확인 후 변경
func (s *UserService) ChangePassword(ctx context.Context, userID int64, in PasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	if err := auth.CheckPassword(user.PasswordHash, in.CurrentPassword); err != nil {
		return apperr.Validation("Incorrect password.")
	}
	if problems := auth.ValidatePassword(in.NewPassword); len(problems) > 0 {
		return apperr.Validation("%s", strings.Join(problems, " "))
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Internal(err, "failed to hash password")
	}
	user.PasswordHash = hash

	if err := s.save(ctx, user); err != nil {
		return err
	}
	s.log.WithField("user_id", userID).Info("password changed")
	return nil
}

func (s *UserService) load(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

func (s *UserService) setAvatar(ctx context.Context, user *model.User, path string) error {
	user.ProfileImageURL = &path
	return s.save(ctx, user)
}

func (s *UserService) save(ctx context.Context, user *model.User) error {
	err := s.repos.Users.Update(ctx, user)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Validation("Email address or username is already in use")
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("User not found")
	default:
		return apperr.Internal(err, "failed to update user")
	}
}
