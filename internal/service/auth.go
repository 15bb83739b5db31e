package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"muru-backend/internal/apperr"
	"muru-backend/internal/auth"
	"muru-backend/internal/model"
	"muru-backend/internal/repository"
)

// RegisterInput 회원가입 요청
type RegisterInput struct {
	Email     string  `json:"email" validate:"required,email"`
	Username  string  `json:"username" validate:"required,max=100"`
	Password  string  `json:"password" validate:"required,max=100"`
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
}

// LoginInput 로그인 요청
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult 로그인 결과
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// AuthService 회원가입/로그인
type AuthService struct {
	users repository.UserRepository
	jwt   *auth.JWTManager
	log   *logrus.Logger
}

// NewAuthService AuthService 생성
func NewAuthService(users repository.UserRepository, jwt *auth.JWTManager, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, log: log}
}

var errInvalidCredentials = apperr.Unauthenticated("Invalid email or password")

// Register 중복 확인 후 계정 생성. 역할은 부여하지 않음
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !auth.ValidateUsername(in.Username) {
		return nil, apperr.Validation("Username '%s' is invalid, can only contain letters or digits.", in.Username)
	}
	if problems := auth.ValidatePassword(in.Password); len(problems) > 0 {
		return nil, apperr.Validation("%s", strings.Join(problems, " "))
	}

	if err := checkAvailable(ctx, s.users, 0, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}

	user := &model.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    optional(in.FirstName),
		LastName:     optional(in.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Validation("Email address or username is already in use")
		}
		return nil, apperr.Internal(err, "failed to create user")
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login 이메일/비밀번호 확인 후 토큰 발급
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load user")
	}

	if err := auth.CheckPassword(user.PasswordHash, in.Password); err != nil {
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := s.jwt.IssueToken(user, user.RoleNames())
	if err != nil {
		return nil, apperr.Internal(err, "failed to generate token")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Profile 토큰 소유자 조회
func (s *AuthService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

// checkAvailable 다른 사용자가 같은 이메일/사용자명을 쓰는지 확인 (selfID는 제외)
func checkAvailable(ctx context.Context, users repository.UserRepository, selfID int64, email, username string) error {
	if email != "" {
		existing, err := users.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != selfID:
			return apperr.Validation("Email address is already in use")
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return apperr.Internal(err, "failed to check email")
		}
	}

	if username != "" {
		existing, err := users.FindByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != selfID:
			return apperr.Validation("Username is already taken")
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return apperr.Internal(err, "failed to check username")
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
